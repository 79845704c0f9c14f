package gateway

import (
	"fmt"

	"github.com/google/uuid"
	"go.trai.ch/weave/internal/core/domain"
	"go.trai.ch/weave/internal/core/ports"
)

// workspace is the single generation area shared by every back-end call.
// All fields are guarded by Gateway.mu.
type workspace struct {
	name      string
	next      uint64
	generated []domain.ContextKey
}

func newWorkspace() *workspace {
	return &workspace{name: uuid.NewString()}
}

// session is the view of the workspace handed to one Generate call. Secondary
// artifacts are staged here and committed by the gateway on success only.
type session struct {
	ws      *workspace
	gw      *Gateway
	staged  map[domain.ContextKey]domain.Artifact
	ordered []domain.ContextKey
}

var _ ports.Workspace = (*session)(nil)

func (s *session) Name() string {
	return s.ws.name
}

func (s *session) NextHandle(hint string) domain.ArtifactHandle {
	s.ws.next++
	return domain.ArtifactHandle(fmt.Sprintf("%s/%s#%d", s.ws.name, hint, s.ws.next))
}

func (s *session) RegisterSecondary(key domain.ContextKey, artifact domain.Artifact) {
	if artifact == nil {
		return
	}
	if _, ok := s.staged[key]; ok {
		return
	}
	s.staged[key] = artifact
	s.ordered = append(s.ordered, key)
}

func (s *session) Secondary(key domain.ContextKey) (domain.Artifact, bool) {
	if a, ok := s.staged[key]; ok {
		return a, true
	}
	return s.gw.Lookup(key)
}
