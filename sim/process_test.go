package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPIDAllocator_StrictlyIncreasing(t *testing.T) {
	var a PIDAllocator
	assert.Equal(t, 0, a.Last())
	prev := 0
	for i := 0; i < 100; i++ {
		pid := a.Next()
		assert.Greater(t, pid, prev)
		prev = pid
	}
	assert.Equal(t, 100, a.Last())
}

func TestProcess_NextInstruction_ConsumesFromFront(t *testing.T) {
	p := &Process{Name: "init", PID: 1, Instructions: []Instruction{{Kind: KindRun, Cycles: 1}, {Kind: KindExit}}}

	in, ok := p.NextInstruction()
	assert.True(t, ok)
	assert.Equal(t, KindRun, in.Kind)
	in, ok = p.NextInstruction()
	assert.True(t, ok)
	assert.Equal(t, KindExit, in.Kind)
	_, ok = p.NextInstruction()
	assert.False(t, ok)
}

func TestProcess_String(t *testing.T) {
	p := &Process{Name: "child", PID: 2, PPID: 1}
	assert.Equal(t, "2(child, 1)", p.String())
}
