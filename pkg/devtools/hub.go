package devtools

import (
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/vmkit-dev/vmkit/pkg/viewmodel"
)

// Event is one lifecycle event as broadcast to inspector clients.
type Event struct {
	Type     string    `json:"type"` // "created", "registered", "disposed"
	ID       uint64    `json:"id"`
	Name     string    `json:"name,omitempty"`
	ParentID uint64    `json:"parentId,omitempty"`
	Kind     string    `json:"kind,omitempty"`  // for "registered"
	Error    string    `json:"error,omitempty"` // for "disposed"
	Time     time.Time `json:"time"`
}

// Node is one live view model in the inspector tree.
type Node struct {
	ID        uint64         `json:"id"`
	Name      string         `json:"name,omitempty"`
	ParentID  uint64         `json:"parentId,omitempty"`
	Resources map[string]int `json:"resources"`
	CreatedAt time.Time      `json:"createdAt"`
}

// Hub tracks the live view-model tree and fans lifecycle events out to
// subscribed clients. It implements viewmodel.Observer and is safe for
// concurrent use.
type Hub struct {
	log *slog.Logger

	mu    sync.Mutex
	nodes map[uint64]*Node

	clientsMu sync.Mutex
	clients   map[chan Event]struct{}
}

// clientBuffer is the per-client event queue size. Clients that fall this
// far behind are dropped rather than blocking the observed view models.
const clientBuffer = 64

// NewHub creates a hub. logger may be nil for a silent hub.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Hub{
		log:     logger,
		nodes:   make(map[uint64]*Node),
		clients: make(map[chan Event]struct{}),
	}
}

// ViewModelCreated implements viewmodel.Observer.
func (h *Hub) ViewModelCreated(vm *viewmodel.ViewModel, parent *viewmodel.ViewModel) {
	node := &Node{
		ID:        vm.ID(),
		Name:      vm.Name(),
		Resources: make(map[string]int),
		CreatedAt: time.Now(),
	}
	if parent != nil {
		node.ParentID = parent.ID()
	}

	h.mu.Lock()
	h.nodes[vm.ID()] = node
	h.mu.Unlock()

	h.log.Debug("view model created", "id", vm.ID(), "name", vm.Name())
	h.broadcast(Event{
		Type:     "created",
		ID:       node.ID,
		Name:     node.Name,
		ParentID: node.ParentID,
		Time:     node.CreatedAt,
	})
}

// ResourceRegistered implements viewmodel.Observer.
func (h *Hub) ResourceRegistered(vm *viewmodel.ViewModel, kind viewmodel.ResourceKind) {
	h.mu.Lock()
	if node, ok := h.nodes[vm.ID()]; ok {
		node.Resources[kind.String()]++
	}
	h.mu.Unlock()

	h.broadcast(Event{
		Type: "registered",
		ID:   vm.ID(),
		Kind: kind.String(),
		Time: time.Now(),
	})
}

// ViewModelDisposed implements viewmodel.Observer.
func (h *Hub) ViewModelDisposed(vm *viewmodel.ViewModel, err error) {
	h.mu.Lock()
	delete(h.nodes, vm.ID())
	h.mu.Unlock()

	ev := Event{
		Type: "disposed",
		ID:   vm.ID(),
		Name: vm.Name(),
		Time: time.Now(),
	}
	if err != nil {
		ev.Error = err.Error()
		h.log.Warn("view model disposed with errors", "id", vm.ID(), "name", vm.Name(), "err", err)
	} else {
		h.log.Debug("view model disposed", "id", vm.ID(), "name", vm.Name())
	}
	h.broadcast(ev)
}

// Tree returns a snapshot of all live view models.
func (h *Hub) Tree() []Node {
	h.mu.Lock()
	defer h.mu.Unlock()

	tree := make([]Node, 0, len(h.nodes))
	for _, node := range h.nodes {
		copied := *node
		copied.Resources = make(map[string]int, len(node.Resources))
		for k, v := range node.Resources {
			copied.Resources[k] = v
		}
		tree = append(tree, copied)
	}
	return tree
}

// subscribe registers a client event channel.
func (h *Hub) subscribe() chan Event {
	ch := make(chan Event, clientBuffer)
	h.clientsMu.Lock()
	h.clients[ch] = struct{}{}
	h.clientsMu.Unlock()
	return ch
}

// unsubscribe removes a client event channel.
func (h *Hub) unsubscribe(ch chan Event) {
	h.clientsMu.Lock()
	if _, ok := h.clients[ch]; ok {
		delete(h.clients, ch)
		close(ch)
	}
	h.clientsMu.Unlock()
}

// broadcast delivers an event to every client, dropping clients whose
// queues are full so lifecycle operations never block on slow consumers.
func (h *Hub) broadcast(ev Event) {
	h.clientsMu.Lock()
	var stale []chan Event
	for ch := range h.clients {
		select {
		case ch <- ev:
		default:
			stale = append(stale, ch)
		}
	}
	for _, ch := range stale {
		delete(h.clients, ch)
		close(ch)
		h.log.Warn("dropping slow inspector client")
	}
	h.clientsMu.Unlock()
}

var _ viewmodel.Observer = (*Hub)(nil)
