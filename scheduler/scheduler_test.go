package scheduler

import (
	"testing"

	"github.com/irvm/iridium/vm"
)

func buildHaltImage() []byte {
	header := make([]byte, vm.HeaderSize)
	copy(header[0:4], vm.Magic[:])
	return append(header, byte(vm.HLT), 0, 0, 0)
}

func TestSubmitRunsToCompletion(t *testing.T) {
	s := New(2)
	v := vm.New()
	v.AddBytes(buildHaltImage())

	events := s.Submit(v).Wait()
	last := events[len(events)-1]
	if last.Kind != vm.EventGracefulStop || last.Code != 0 {
		t.Fatalf("got %+v, want GracefulStop{0}", last)
	}
}

func TestSubmitRespectsConcurrencyCap(t *testing.T) {
	s := New(1)
	var handles []*Handle
	for i := 0; i < 3; i++ {
		v := vm.New()
		v.AddBytes(buildHaltImage())
		handles = append(handles, s.Submit(v))
	}
	for _, h := range handles {
		events := h.Wait()
		last := events[len(events)-1]
		if last.Kind != vm.EventGracefulStop {
			t.Fatalf("got %+v, want GracefulStop", last)
		}
	}
}

func TestNewNonPositiveMaxConcurrentDefaultsToOne(t *testing.T) {
	s := New(0)
	if cap(s.sem) != 1 {
		t.Errorf("sem capacity = %d, want 1", cap(s.sem))
	}
}
