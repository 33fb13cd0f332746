package index

var (
	bSong     = []byte("song")     // slug -> SongMeta json
	bAlias    = []byte("alias")    // alias slug -> canonical slug
	bCategory = []byte("category") // slug -> CategoryMeta json
	bManifest = []byte("manifest") // manifestKey -> Manifest json
)

var manifestKey = []byte("last")
