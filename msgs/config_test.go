package msgs_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/cosim/msgs"
)

var _ = Describe("MemConfig", func() {
	Describe("Defaults", func() {
		It("should be 8/32/32", func() {
			config := msgs.DefaultMemConfig()
			Expect(config.OpaqueBits).To(Equal(uint(8)))
			Expect(config.AddrBits).To(Equal(uint(32)))
			Expect(config.DataBits).To(Equal(uint(32)))
			Expect(config.Validate()).To(Succeed())
		})

		It("should derive a 2-bit len", func() {
			config := msgs.DefaultMemConfig()
			Expect(config.LenBits()).To(Equal(uint(2)))
			Expect(config.LenValue()).To(Equal(uint64(0)))
			Expect(config.MemReqBits()).To(Equal(uint(77)))
			Expect(config.MemRespBits()).To(Equal(uint(47)))
		})
	})

	DescribeTable("len derivation",
		func(dataBits, lenBits uint, lenValue uint64) {
			config := &msgs.MemConfig{AddrBits: 32, DataBits: dataBits}
			Expect(config.LenBits()).To(Equal(lenBits))
			Expect(config.LenValue()).To(Equal(lenValue))
		},
		Entry("8-bit data", uint(8), uint(0), uint64(0)),
		Entry("16-bit data", uint(16), uint(1), uint64(0)),
		Entry("24-bit data", uint(24), uint(2), uint64(3)),
		Entry("32-bit data", uint(32), uint(2), uint64(0)),
		Entry("64-bit data", uint(64), uint(3), uint64(0)),
	)

	DescribeTable("validation",
		func(config msgs.MemConfig) {
			Expect(config.Validate()).To(MatchError(msgs.ErrInvalidConfig))
		},
		Entry("zero address", msgs.MemConfig{AddrBits: 0, DataBits: 32}),
		Entry("address too wide", msgs.MemConfig{AddrBits: 65, DataBits: 32}),
		Entry("data not whole bytes", msgs.MemConfig{AddrBits: 32, DataBits: 12}),
		Entry("data too narrow", msgs.MemConfig{AddrBits: 32, DataBits: 0}),
		Entry("data too wide", msgs.MemConfig{AddrBits: 32, DataBits: 128}),
		Entry("opaque too wide", msgs.MemConfig{OpaqueBits: 65, AddrBits: 32, DataBits: 32}),
	)

	Describe("Config file", func() {
		var dir string

		BeforeEach(func() {
			dir = GinkgoT().TempDir()
		})

		It("should save and load", func() {
			path := filepath.Join(dir, "widths.json")
			config := &msgs.MemConfig{OpaqueBits: 4, AddrBits: 48, DataBits: 64}
			Expect(config.SaveConfig(path)).To(Succeed())

			loaded, err := msgs.LoadMemConfig(path)
			Expect(err).ToNot(HaveOccurred())
			Expect(loaded).To(Equal(config))
		})

		It("should keep defaults for missing keys", func() {
			path := filepath.Join(dir, "partial.json")
			Expect(os.WriteFile(path, []byte(`{"data_bits": 64}`), 0644)).To(Succeed())

			loaded, err := msgs.LoadMemConfig(path)
			Expect(err).ToNot(HaveOccurred())
			Expect(loaded.OpaqueBits).To(Equal(uint(8)))
			Expect(loaded.AddrBits).To(Equal(uint(32)))
			Expect(loaded.DataBits).To(Equal(uint(64)))
		})

		It("should reject an invalid file", func() {
			path := filepath.Join(dir, "bad.json")
			Expect(os.WriteFile(path, []byte(`{"data_bits": 7}`), 0644)).To(Succeed())

			_, err := msgs.LoadMemConfig(path)
			Expect(err).To(MatchError(msgs.ErrInvalidConfig))
		})

		It("should report a missing file", func() {
			_, err := msgs.LoadMemConfig(filepath.Join(dir, "missing.json"))
			Expect(err).To(HaveOccurred())
		})
	})

	It("should clone", func() {
		config := msgs.DefaultMemConfig()
		clone := config.Clone()
		clone.DataBits = 64
		Expect(config.DataBits).To(Equal(uint(32)))
	})
})
