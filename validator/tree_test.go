package validator

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("ComputeTreeStatus", func() {
	DescribeTable("propagation state",
		func(current, latest int64, state TreeState, elapsed, remaining int64) {
			status := ComputeTreeStatus(current, latest)

			Expect(status.State).Should(Equal(state))
			Expect(status.Elapsed).Should(Equal(elapsed))
			Expect(status.RemainingBlocks).Should(Equal(remaining))
		},
		Entry("synced long after the commitment", int64(130), int64(73), TreeSynced, int64(58), int64(0)),
		Entry("pending right after the update", int64(100), int64(73), TreePending, int64(28), int64(8)),
		Entry("committed while light clients lag", int64(115), int64(73), TreeCommitted, int64(43), int64(5)),
		Entry("exactly one interval is still pending", int64(108), int64(73), TreePending, int64(36), int64(0)),
		Entry("exactly interval plus lag is committed", int64(120), int64(73), TreeCommitted, int64(48), int64(0)),
		Entry("one block later is synced", int64(121), int64(73), TreeSynced, int64(49), int64(0)),
		Entry("update on a commitment height anchors one interval back", int64(130), int64(72), TreeSynced,
			int64(94), int64(0)),
	)

	It("should estimate ten minutes per block", func() {
		Expect(ComputeTreeStatus(100, 73).RemainingMinutes()).Should(Equal(int64(80)))
		Expect(ComputeTreeStatus(115, 73).RemainingMinutes()).Should(Equal(int64(50)))
	})

	It("should name the states", func() {
		Expect(TreeSynced.String()).Should(Equal("synced"))
		Expect(TreeCommitted.String()).Should(Equal("committed"))
		Expect(TreePending.String()).Should(Equal("pending"))
	})
})
