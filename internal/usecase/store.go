package usecase

import (
	"sync"
	"time"

	"github.com/xavierca1/painel-leads/internal/entity"
)

const (
	StateLoading = "loading"
	StateError   = "error"
	StateReady   = "ready"
)

// Store guarda as coleções carregadas. Não há persistência: é um cache
// recarregável do que o webhook devolveu, alterado só depois de confirmação remota.
type Store struct {
	mu         sync.RWMutex
	leads      []entity.Lead
	prompts    []entity.Prompt
	lastUpdate time.Time
	lastErr    error
	warnings   []*FetchFailedError
	loaded     bool
}

func NewStore() *Store {
	return &Store{
		leads:   []entity.Lead{},
		prompts: []entity.Prompt{},
	}
}

// Snapshot é a visão de estado usada pelo endpoint /status.
type Snapshot struct {
	State      string     `json:"state"`
	Leads      int        `json:"leads"`
	Prompts    int        `json:"prompts"`
	LastUpdate *time.Time `json:"last_update,omitempty"`
	Error      string     `json:"error,omitempty"`
	Warnings   []string   `json:"warnings,omitempty"`
}

func (s *Store) Leads() []entity.Lead {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entity.Lead, len(s.leads))
	copy(out, s.leads)
	return out
}

func (s *Store) Prompts() []entity.Prompt {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entity.Prompt, len(s.prompts))
	copy(out, s.prompts)
	return out
}

func (s *Store) Lead(id int64) (entity.Lead, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, l := range s.leads {
		if l.ID == id {
			return l, true
		}
	}
	return entity.Lead{}, false
}

func (s *Store) Prompt(id int64) (entity.Prompt, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.prompts {
		if p.ID == id {
			return p, true
		}
	}
	return entity.Prompt{}, false
}

func (s *Store) ReplaceLeads(leads []entity.Lead) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.leads = leads
}

func (s *Store) ReplacePrompts(prompts []entity.Prompt) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prompts = prompts
}

// RemoveLeads tira exatamente os ids informados e devolve quantos saíram.
func (s *Store) RemoveLeads(ids []int64) int {
	drop := make(map[int64]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	kept := make([]entity.Lead, 0, len(s.leads))
	for _, l := range s.leads {
		if !drop[l.ID] {
			kept = append(kept, l)
		}
	}
	removed := len(s.leads) - len(kept)
	s.leads = kept
	return removed
}

func (s *Store) ReplaceLead(lead entity.Lead) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.leads {
		if s.leads[i].ID == lead.ID {
			s.leads[i] = lead
			return true
		}
	}
	return false
}

// PrependPrompt coloca o prompt novo no topo, como a lista mostra os recém-criados.
func (s *Store) PrependPrompt(p entity.Prompt) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prompts = append([]entity.Prompt{p}, s.prompts...)
}

func (s *Store) ReplacePrompt(p entity.Prompt) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.prompts {
		if s.prompts[i].ID == p.ID {
			s.prompts[i] = p
			return true
		}
	}
	return false
}

func (s *Store) RemovePrompt(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.prompts {
		if s.prompts[i].ID == id {
			s.prompts = append(s.prompts[:i:i], s.prompts[i+1:]...)
			return true
		}
	}
	return false
}

// MarkLoaded registra uma carga com pelo menos um recurso bem-sucedido.
func (s *Store) MarkLoaded(at time.Time, warnings []*FetchFailedError) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loaded = true
	s.lastUpdate = at
	s.lastErr = nil
	s.warnings = warnings
}

// MarkFailed registra uma falha total; os dados anteriores ficam intactos.
func (s *Store) MarkFailed(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = err
}

func (s *Store) LastUpdate() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastUpdate
}

func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		State:   StateReady,
		Leads:   len(s.leads),
		Prompts: len(s.prompts),
	}
	if s.lastErr != nil {
		snap.Error = s.lastErr.Error()
	}
	for _, w := range s.warnings {
		snap.Warnings = append(snap.Warnings, w.Error())
	}

	switch {
	case !s.loaded && s.lastErr != nil:
		snap.State = StateError
	case !s.loaded:
		snap.State = StateLoading
	default:
		t := s.lastUpdate
		snap.LastUpdate = &t
	}
	return snap
}
