package tabler

import "sync"

const (
	EventPaged          = "paged"
	EventSorted         = "sorted"
	EventColumnsToggled = "columnsToggled"
	EventRendered       = "rendered"
)

// PagedEvent is the payload of EventPaged.
type PagedEvent struct {
	CurrentPage int
	PageSize    int
}

// SortedEvent is the payload of EventSorted.
type SortedEvent struct {
	Field     string
	Direction SortDirection
}

// ColumnsToggledEvent is the payload of EventColumnsToggled.
type ColumnsToggledEvent struct{}

// RenderedEvent is the payload of EventRendered.
// Err is nil if the render cycle was committed.
type RenderedEvent struct {
	Err error
}

// Handler is called with the payload of a triggered event.
type Handler func(payload any)

type eventHub struct {
	mtx      sync.Mutex
	handlers map[string][]*Handler
}

func (h *eventHub) on(event string, handler Handler) (off func()) {
	h.mtx.Lock()
	defer h.mtx.Unlock()

	if h.handlers == nil {
		h.handlers = make(map[string][]*Handler)
	}
	ptr := &handler
	h.handlers[event] = append(h.handlers[event], ptr)
	return func() {
		h.mtx.Lock()
		defer h.mtx.Unlock()

		handlers := h.handlers[event]
		for i, hp := range handlers {
			if hp == ptr {
				h.handlers[event] = append(handlers[:i:i], handlers[i+1:]...)
				return
			}
		}
	}
}

func (h *eventHub) trigger(event string, payload any) {
	h.mtx.Lock()
	handlers := append([]*Handler(nil), h.handlers[event]...)
	h.mtx.Unlock()

	for _, hp := range handlers {
		(*hp)(payload)
	}
}

func (h *eventHub) clear() {
	h.mtx.Lock()
	h.handlers = nil
	h.mtx.Unlock()
}
