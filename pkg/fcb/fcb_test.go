package fcb

import (
	"testing/fstest"

	"github.com/OpenTraceLab/OpenTraceFCB/pkg/devicedb"
)

const testLayout = `
layout "test_nor" size 0x200 endian little

register tag @ 0x000 : 32 reset 0x42464346 reserved "Tag"
register version @ 0x004 : 32 "Version" {
    field minor @ 8 : 8 "Minor version"
    field major @ 16 : 8 "Major version"
}
register readSampleClkSrc @ 0x008 : 8 "Read sample clock source" {
    field source @ 0 : 2 {
        LoopbackInternally = 0 "Looped back internally"
        LoopbackFromDqsPad = 1
    }
    field invert @ 7 : 1
}
register pageSize @ 0x00C : 32 "Page size in bytes"
register lookupTable @ 0x010 : 128 "First LUT sequence"
register spare @ 0x1FC : 32 reserved
`

const testDatabase = `
families:
  testchip:
    revisions:
      - name: a0
      - name: b0
    latest: b0
    features:
      fcb:
        mem_types:
          nor: layouts/test_nor.regs
  otherchip:
    revisions:
      - name: x0
`

func newTestLoader() (*Loader, error) {
	store, err := devicedb.Load(fstest.MapFS{
		devicedb.DatabaseFile:   &fstest.MapFile{Data: []byte(testDatabase)},
		"layouts/test_nor.regs": &fstest.MapFile{Data: []byte(testLayout)},
	})
	if err != nil {
		return nil, err
	}
	return NewLoader(store)
}

// resetBlock returns a block of zeros carrying only the signature.
func resetBlock(size int) []byte {
	buf := make([]byte, size)
	copy(buf, Signature)
	return buf
}
