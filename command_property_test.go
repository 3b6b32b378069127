package amplitude

import (
	"testing"

	"pgregory.net/rapid"
)

// TestCommandQueuePreservesFIFOOrderForAnyPushSequence is a property test:
// for any sequence of pushes that stays within the ring's capacity before
// draining, Drain must hand the commands back in exactly the order they
// were pushed, regardless of the values carried or how many there were.
func TestCommandQueuePreservesFIFOOrderForAnyPushSequence(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		capacity := rapid.IntRange(1, 64).Draw(rt, "capacity")
		q := NewCommandQueue(capacity)

		n := rapid.IntRange(0, capacity).Draw(rt, "n")
		want := make([]int, n)
		for i := 0; i < n; i++ {
			v := rapid.IntRange(-1000, 1000).Draw(rt, "valueIdx")
			want[i] = v
			if !q.Push(Command{Kind: CmdSetRtpc, ValueIdx: v}) {
				rt.Fatalf("Push #%d unexpectedly reported full (capacity=%d, n=%d)", i, capacity, n)
			}
		}

		got := make([]int, 0, n)
		q.Drain(func(c Command) { got = append(got, c.ValueIdx) })

		if len(got) != len(want) {
			rt.Fatalf("Drain produced %d commands, want %d", len(got), len(want))
		}
		for i := range want {
			if got[i] != want[i] {
				rt.Fatalf("command %d: got ValueIdx=%d, want %d (order not preserved)", i, got[i], want[i])
			}
		}
	})
}
