package channel_test

import (
	"bytes"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/cosim/channel"
	"github.com/sarchlab/cosim/msgs"
)

var _ = Describe("Channel", func() {
	var ch *channel.Channel

	BeforeEach(func() {
		ch = channel.New("Core.ToAccel", 2)
	})

	It("should deliver in order", func() {
		a, _ := msgs.EncodeRoccCmd(0, 1, 10)
		b, _ := msgs.EncodeRoccCmd(0, 2, 20)

		idA, err := ch.Send(a)
		Expect(err).ToNot(HaveOccurred())
		idB, err := ch.Send(b)
		Expect(err).ToNot(HaveOccurred())
		Expect(idA).ToNot(Equal(idB))

		env, ok := ch.Recv()
		Expect(ok).To(BeTrue())
		Expect(env.ID).To(Equal(idA))
		Expect(env.Msg).To(Equal(a))

		env, ok = ch.Recv()
		Expect(ok).To(BeTrue())
		Expect(env.Msg.(msgs.RoccCmd).Xreg()).To(Equal(uint8(2)))
	})

	It("should report empty", func() {
		_, ok := ch.Recv()
		Expect(ok).To(BeFalse())

		_, ok = ch.Peek()
		Expect(ok).To(BeFalse())
	})

	It("should refuse when full", func() {
		resp := msgs.EncodeRoccResp(1)
		_, _ = ch.Send(resp)
		_, _ = ch.Send(resp)

		Expect(ch.CanSend()).To(BeFalse())
		_, err := ch.Send(resp)
		Expect(err).To(MatchError(channel.ErrChannelFull))

		Expect(ch.Stats()).To(Equal(channel.Stats{Sent: 2, Rejected: 1}))
	})

	It("should refuse a nil message", func() {
		var out bytes.Buffer
		ch.AcceptHook(channel.NewLineTracer(&out))

		_, err := ch.Send(nil)
		Expect(err).To(MatchError(channel.ErrNilMessage))
		Expect(ch.Len()).To(Equal(0))
		Expect(out.Len()).To(Equal(0))
	})

	It("should peek without removing", func() {
		resp := msgs.EncodeRoccResp(7)
		_, _ = ch.Send(resp)

		env, ok := ch.Peek()
		Expect(ok).To(BeTrue())
		Expect(env.Msg).To(Equal(resp))
		Expect(ch.Len()).To(Equal(1))
		Expect(ch.Capacity()).To(Equal(2))
	})

	It("should trace sends and receives", func() {
		var out bytes.Buffer
		ch.AcceptHook(channel.NewLineTracer(&out))

		cmd, _ := msgs.EncodeRoccCmd(0, 1, 0x2A)
		id, _ := ch.Send(cmd)
		ch.Recv()

		lines := strings.Split(strings.TrimSpace(out.String()), "\n")
		Expect(lines).To(HaveLen(2))
		Expect(lines[0]).To(Equal("send Core.ToAccel " + id + " RoccCmd 00:01:000000000000002a"))
		Expect(lines[1]).To(HavePrefix("recv Core.ToAccel " + id))
	})
})
