package bridge

import (
	"sync"

	"github.com/hollyoak/guibridge/gui"
)

// Handle is an opaque instance reference the host threads through every
// call. Handles never alias Go pointers, so a host can hold them across any
// boundary without lifetime concerns. Handle 0 is never valid.
type Handle uint64

var registry = struct {
	mu   sync.Mutex
	next Handle
	m    map[Handle]*Instance
}{m: make(map[Handle]*Instance)}

// Init creates an instance and returns its handle. Call exactly once per
// GUI before the first Update.
func Init(newApp func(ctx *gui.Context) App, opts Options) Handle {
	inst := New(newApp, opts)
	return register(inst)
}

func register(inst *Instance) Handle {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	registry.next++
	h := registry.next
	registry.m[h] = inst
	return h
}

func lookup(h Handle) *Instance {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	return registry.m[h]
}

// Update runs one frame on the instance behind h. An unknown or destroyed
// handle yields StatusGone; it never crashes.
func Update(h Handle, buf []byte) ([]byte, Status) {
	inst := lookup(h)
	if inst == nil {
		return nil, StatusGone
	}
	return inst.Update(buf)
}

// Destroy releases the instance behind h. Further Update calls on the same
// handle return StatusGone. Destroying an unknown handle is a no-op.
func Destroy(h Handle) {
	registry.mu.Lock()
	inst := registry.m[h]
	delete(registry.m, h)
	registry.mu.Unlock()
	if inst != nil {
		inst.Destroy()
	}
}
