package fcb

import (
	"errors"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/OpenTraceLab/OpenTraceFCB/pkg/devicedb"
	"github.com/OpenTraceLab/OpenTraceFCB/pkg/regs"
)

var _ = Describe("FCB segment", func() {
	var loader *Loader

	BeforeEach(func() {
		var err error
		loader, err = newTestLoader()
		Expect(err).NotTo(HaveOccurred())
	})

	It("parses a block holding only the signature", func() {
		seg, err := Parse(loader, resetBlock(Size), 0, "testchip", "nor", "latest")
		Expect(err).NotTo(HaveOccurred())

		fresh, err := New(loader, "testchip", "nor", "latest")
		Expect(err).NotTo(HaveOccurred())
		Expect(seg.Bank().Config()).To(Equal(fresh.Bank().Config()))
		Expect(seg.Bank().Config()).To(HaveKeyWithValue("pageSize", "0x00000000"))
	})

	It("rejects a block one byte short", func() {
		_, err := Parse(loader, resetBlock(Size-1), 0, "testchip", "nor", "latest")

		var truncErr *regs.TruncatedInputError
		Expect(errors.As(err, &truncErr)).To(BeTrue())
		Expect(truncErr.Actual).To(Equal(Size - 1))
		Expect(err.Error()).To(ContainSubstring("511 < 512"))
	})

	It("rejects a block with the wrong signature", func() {
		buf := resetBlock(Size)
		copy(buf, "XXXX")
		_, err := Parse(loader, buf, 0, "testchip", "nor", "latest")

		var sigErr *SignatureMismatchError
		Expect(errors.As(err, &sigErr)).To(BeTrue())
		Expect(sigErr.Expected).To(Equal([]byte("FCFB")))
		Expect(sigErr.Actual).To(Equal([]byte("XXXX")))
	})

	It("reports an unknown memory type in a document", func() {
		_, err := Load(loader, []byte("family: testchip\ntype: Unknown\n"))

		var cfgErr *ConfigValidationError
		Expect(errors.As(err, &cfgErr)).To(BeTrue())
		var mtErr *devicedb.UnsupportedMemoryTypeError
		Expect(errors.As(err, &mtErr)).To(BeTrue())
		Expect(mtErr.Valid).To(Equal([]string{"nor"}))
		Expect(err.Error()).To(ContainSubstring("nor"))
	})

	It("reports an unknown register in a document", func() {
		_, err := Load(loader, []byte("family: testchip\ntype: nor\nfcb_settings:\n  not_a_register: 1\n"))

		var cfgErr *ConfigValidationError
		Expect(errors.As(err, &cfgErr)).To(BeTrue())
		var regErr *regs.UnknownRegisterError
		Expect(errors.As(err, &regErr)).To(BeTrue())
		Expect(regErr.Name).To(Equal("not_a_register"))
	})

	It("builds the reset block from its own template", func() {
		tmpl, err := Template(loader, "testchip", "nor", "latest")
		Expect(err).NotTo(HaveOccurred())
		Expect(tmpl).NotTo(BeEmpty())

		seg, err := Load(loader, []byte(tmpl))
		Expect(err).NotTo(HaveOccurred())
		Expect(seg.Serialize()).To(Equal(resetBlock(Size)))
	})
})
