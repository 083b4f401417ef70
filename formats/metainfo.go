package formats

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/pkg/errors"

	"github.com/OLUWAMUYIWA/combinators/parsec"
)

// https://wiki.theory.org/index.php/BitTorrentSpecification

type Sha1 [20]byte

func (s Sha1) String() string {
	return hex.EncodeToString(s[:])
}

type MetaInfo struct {
	Info     InfoDict `benc:"info"`
	Announce string   `benc:"announce"` // url of the tracker

	// optionals
	AnnounceList [][]string `benc:"announce-list,omitempty"`
	CreationDate int64      `benc:"creation date,omitempty"`
	Comment      string     `benc:"comment,omitempty"`
	CreatedBy    string     `benc:"created by,omitempty"`
	Encoding     string     `benc:"encoding,omitempty"`

	InfoHash Sha1 `benc:"-"`
}

// InfoDict describes the files of the torrent
type InfoDict struct {
	PieceLength int64  `benc:"piece length"` // number of bytes in each piece
	Pieces      string `benc:"pieces"`       // concatenated 20-byte SHA-1s, one per piece
	Name        string `benc:"name"`         // name of file in single file mode, name of directory in directory mode
	Private     int64  `benc:"private,omitempty"`

	// single-file mode
	Length int64  `benc:"length,omitempty"`
	MD5Sum string `benc:"md5sum,omitempty"`

	// directory mode
	Files []FileInfo `benc:"files,omitempty"`
}

type FileInfo struct {
	Length int64    `benc:"length"` // length of the file in bytes
	MD5Sum string   `benc:"md5sum,omitempty"`
	Path   []string `benc:"path"`
}

// topEntries matches a dictionary, keeping every value as the bytes it was read from.
var topEntries = parsec.Between(
	parsec.Tag('d'),
	parsec.Many0(parsec.Seq2(BencStr(), parsec.Spanned(bencValue))),
	parsec.Tag('e'),
)

// rawValue returns the bytes of the top-level dictionary value under key.
func rawValue(data []byte, key string) ([]byte, bool) {
	entries, ok := topEntries(string(data)).Get()
	if !ok {
		return nil, false
	}
	for _, kv := range entries {
		if kv.V1 == key {
			return []byte(kv.V2), true
		}
	}
	return nil, false
}

// ParseMetaInfo decodes a .torrent file. The info hash is the SHA-1 of the info
// dictionary exactly as it appears in the file, whatever its key order.
func ParseMetaInfo(data []byte) (*MetaInfo, error) {
	v, err := Decode(data)
	if err != nil {
		return nil, errors.Wrap(err, "decode metainfo")
	}
	top, ok := v.(map[string]any)
	if !ok {
		return nil, errors.Errorf("metainfo is a %T, not a dictionary", v)
	}
	if _, ok := top["info"].(map[string]any); !ok {
		return nil, errors.New("metainfo has no info dictionary")
	}

	m := &MetaInfo{}
	if err := Assign(top, m); err != nil {
		return nil, errors.Wrap(err, "metainfo")
	}
	if m.Info.PieceLength <= 0 {
		return nil, errors.Errorf("invalid piece length %d", m.Info.PieceLength)
	}
	if len(m.Info.Pieces)%sha1.Size != 0 {
		return nil, errors.Errorf("pieces is %d bytes, not a multiple of %d", len(m.Info.Pieces), sha1.Size)
	}

	raw, ok := rawValue(data, "info")
	if !ok {
		return nil, errors.New("metainfo has no info dictionary")
	}
	m.InfoHash = sha1.Sum(raw)
	return m, nil
}

// PieceHashes splits Pieces into one hash per piece.
func (m *MetaInfo) PieceHashes() []Sha1 {
	n := len(m.Info.Pieces) / sha1.Size
	hashes := make([]Sha1, n)
	for i := range hashes {
		copy(hashes[i][:], m.Info.Pieces[i*sha1.Size:])
	}
	return hashes
}

func (m *MetaInfo) IsDir() bool {
	return len(m.Info.Files) > 0
}

// Size is the total length of the torrent's content in bytes.
func (m *MetaInfo) Size() int64 {
	if !m.IsDir() {
		return m.Info.Length
	}
	var total int64
	for _, f := range m.Info.Files {
		total += f.Length
	}
	return total
}

// CreationTime is zero when the file carries no creation date.
func (m *MetaInfo) CreationTime() time.Time {
	if m.CreationDate == 0 {
		return time.Time{}
	}
	return time.Unix(m.CreationDate, 0).UTC()
}

func (m MetaInfo) String() string {
	return fmt.Sprintf(
		"Announce: %s\nCreation Time: %s\nCreated By: %s\nInfo Hash: %s",
		m.Announce, m.CreationTime(), m.CreatedBy, m.InfoHash,
	)
}
