package accel_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/cosim/accel"
	"github.com/sarchlab/cosim/channel"
	"github.com/sarchlab/cosim/memory"
	"github.com/sarchlab/cosim/msgs"
)

// badTagPort answers every request with the wrong opaque tag.
type badTagPort struct {
	codec *msgs.MemCodec
}

func (p *badTagPort) Access(req msgs.MemReq) (msgs.MemResp, error) {
	return p.codec.EncodeMemResp(req.Type(), req.Opaque()^1, 0)
}

// foreignPort answers every request with a response from its own codec.
type foreignPort struct {
	codec *msgs.MemCodec
}

func (p *foreignPort) Access(req msgs.MemReq) (msgs.MemResp, error) {
	return p.codec.EncodeMemResp(req.Type(), req.Opaque(), 0)
}

func mustCmd(typ, xreg uint8, data uint64) msgs.RoccCmd {
	cmd, err := msgs.EncodeRoccCmd(typ, xreg, data)
	Expect(err).ToNot(HaveOccurred())
	return cmd
}

var _ = Describe("Accelerator", func() {
	var (
		codec *msgs.MemCodec
		mem   *memory.Memory
		a     *accel.Accelerator
	)

	BeforeEach(func() {
		var err error
		codec, err = msgs.NewMemCodec(msgs.DefaultMemConfig())
		Expect(err).ToNot(HaveOccurred())
		mem = memory.New(codec, 4096)
		a = accel.New(accel.WithMemory(codec, mem))
	})

	Describe("Register commands", func() {
		It("should write then read a register", func() {
			resp, err := a.Execute(mustCmd(accel.CmdWrite, 5, 0x1234))
			Expect(err).ToNot(HaveOccurred())
			Expect(resp.Data()).To(Equal(uint64(0)))

			resp, err = a.Execute(mustCmd(accel.CmdRead, 5, 0))
			Expect(err).ToNot(HaveOccurred())
			Expect(resp.Data()).To(Equal(uint64(0x1234)))
		})

		It("should accumulate", func() {
			_, _ = a.Execute(mustCmd(accel.CmdWrite, 1, 40))
			resp, err := a.Execute(mustCmd(accel.CmdAccum, 1, 2))
			Expect(err).ToNot(HaveOccurred())
			Expect(resp.Data()).To(Equal(uint64(42)))
			Expect(a.RegFile().ReadReg(1)).To(Equal(uint64(42)))
		})

		It("should keep register 0 at zero", func() {
			_, _ = a.Execute(mustCmd(accel.CmdWrite, 0, 99))
			resp, _ := a.Execute(mustCmd(accel.CmdRead, 0, 0))
			Expect(resp.Data()).To(Equal(uint64(0)))
		})

		It("should reject unknown commands", func() {
			_, err := a.Execute(mustCmd(0x7F, 1, 0))
			Expect(err).To(MatchError(accel.ErrUnknownCommand))
			Expect(a.Stats().Commands).To(Equal(uint64(0)))
		})
	})

	Describe("Memory commands", func() {
		It("should store then load through memory", func() {
			_, _ = a.Execute(mustCmd(accel.CmdWrite, 2, 0xDEADBEEF))

			_, err := a.Execute(mustCmd(accel.CmdStore, 2, 0x100))
			Expect(err).ToNot(HaveOccurred())

			resp, err := a.Execute(mustCmd(accel.CmdLoad, 3, 0x100))
			Expect(err).ToNot(HaveOccurred())
			Expect(resp.Data()).To(Equal(uint64(0xDEADBEEF)))
			Expect(a.RegFile().ReadReg(3)).To(Equal(uint64(0xDEADBEEF)))

			Expect(mem.Stats()).To(Equal(memory.Statistics{Reads: 1, Writes: 1}))
			Expect(a.Stats()).To(Equal(accel.Stats{Commands: 3, MemAccess: 2}))
		})

		It("should reject storing a value wider than the data field", func() {
			_, _ = a.Execute(mustCmd(accel.CmdWrite, 2, 0x100000000))
			_, err := a.Execute(mustCmd(accel.CmdStore, 2, 0x100))
			Expect(err).To(MatchError(msgs.ErrFieldOutOfRange))
		})

		It("should fail without a memory port", func() {
			bare := accel.New()
			_, err := bare.Execute(mustCmd(accel.CmdLoad, 1, 0))
			Expect(err).To(MatchError(accel.ErrNoMemory))
		})

		It("should detect a tag mismatch", func() {
			bad := accel.New(accel.WithMemory(codec, &badTagPort{codec: codec}))
			_, err := bad.Execute(mustCmd(accel.CmdLoad, 1, 0))
			Expect(err).To(MatchError(accel.ErrTagMismatch))
		})

		It("should fail against a memory of another width config", func() {
			wide, err := msgs.NewMemCodec(&msgs.MemConfig{OpaqueBits: 8, AddrBits: 32, DataBits: 64})
			Expect(err).ToNot(HaveOccurred())

			mixed := accel.New(accel.WithMemory(codec, memory.New(wide, 4096)))
			_, err = mixed.Execute(mustCmd(accel.CmdStore, 1, 0))
			Expect(err).To(MatchError(msgs.ErrWidthMismatch))
			Expect(mixed.Stats()).To(Equal(accel.Stats{}))
		})

		It("should reject responses of another width config", func() {
			wide, err := msgs.NewMemCodec(&msgs.MemConfig{OpaqueBits: 8, AddrBits: 32, DataBits: 64})
			Expect(err).ToNot(HaveOccurred())

			mixed := accel.New(accel.WithMemory(codec, &foreignPort{codec: wide}))
			_, err = mixed.Execute(mustCmd(accel.CmdLoad, 1, 0))
			Expect(err).To(MatchError(msgs.ErrWidthMismatch))
		})

		It("should pass memory errors through", func() {
			_, err := a.Execute(mustCmd(accel.CmdLoad, 1, 0x10000))
			Expect(err).To(MatchError(memory.ErrOutOfBounds))
		})
	})

	Describe("Serve", func() {
		It("should answer commands from a channel", func() {
			in := channel.New("Core.ToAccel", 4)
			out := channel.New("Accel.ToCore", 4)

			_, _ = in.Send(mustCmd(accel.CmdWrite, 7, 10))
			_, _ = in.Send(mustCmd(accel.CmdAccum, 7, 5))

			n, err := a.Serve(in, out)
			Expect(err).ToNot(HaveOccurred())
			Expect(n).To(Equal(2))

			out.Recv()
			env, ok := out.Recv()
			Expect(ok).To(BeTrue())
			Expect(env.Msg.(msgs.RoccResp).Data()).To(Equal(uint64(15)))
		})

		It("should reject other message kinds", func() {
			in := channel.New("Core.ToAccel", 1)
			out := channel.New("Accel.ToCore", 1)
			_, _ = in.Send(msgs.EncodeRoccResp(0))

			_, err := a.Serve(in, out)
			Expect(err).To(HaveOccurred())
		})
	})
})
