// Package memory serves the curated ecosystem reference dataset from an
// embedded YAML file. Reads hand out copies so callers can iterate without
// locking; Refresh re-parses the dataset and swaps the snapshot atomically.
package memory

import (
	_ "embed"
	"fmt"
	"log/slog"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/monicahwamuhu2/kenya-startup-navigator-backend/internal/domain"
)

//go:embed dataset.yaml
var datasetYAML []byte

type snapshot struct {
	Investors       []domain.Investor        `yaml:"investors"`
	Accelerators    []domain.EcosystemEntity `yaml:"accelerators"`
	CoworkingSpaces []domain.EcosystemEntity `yaml:"coworking_spaces"`
	Events          []domain.Event           `yaml:"events"`
}

// Store is an in-memory domain.EcosystemStore backed by the embedded dataset.
type Store struct {
	mu   sync.RWMutex
	snap snapshot
}

// NewStore parses the embedded dataset and returns a ready store.
func NewStore() (*Store, error) {
	s := &Store{}
	snap, err := parseDataset()
	if err != nil {
		return nil, err
	}
	s.snap = snap
	slog.Info("ecosystem dataset loaded",
		slog.Int("investors", len(snap.Investors)),
		slog.Int("accelerators", len(snap.Accelerators)),
		slog.Int("coworking_spaces", len(snap.CoworkingSpaces)),
		slog.Int("events", len(snap.Events)))
	return s, nil
}

func parseDataset() (snapshot, error) {
	var snap snapshot
	if err := yaml.Unmarshal(datasetYAML, &snap); err != nil {
		return snapshot{}, fmt.Errorf("op=dataset.parse: %w", err)
	}
	if len(snap.Investors) == 0 {
		return snapshot{}, fmt.Errorf("op=dataset.parse: no investors in dataset")
	}
	return snap, nil
}

// Investors returns investors matching the filter. Zero-valued filter fields
// are ignored. Ticket bounds match on range overlap: an investor qualifies
// when its range could cover the requested amount.
func (s *Store) Investors(_ domain.Context, f domain.InvestorFilter) []domain.Investor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Investor, 0, len(s.snap.Investors))
	for _, inv := range s.snap.Investors {
		if f.Industry != "" && !hasIndustry(inv.FocusIndustries, f.Industry) {
			continue
		}
		if f.Stage != "" && !hasStage(inv.FocusStages, f.Stage) {
			continue
		}
		if f.TicketSizeMin > 0 && inv.TicketSizeMax < f.TicketSizeMin {
			continue
		}
		if f.TicketSizeMax > 0 && inv.TicketSizeMin > f.TicketSizeMax {
			continue
		}
		if f.Location != "" && !hasLocation(inv.GeographicFocus, f.Location) {
			continue
		}
		out = append(out, inv)
	}
	return out
}

// Accelerators returns accelerator programs matching the filter.
func (s *Store) Accelerators(_ domain.Context, f domain.EntityFilter) []domain.EcosystemEntity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return filterEntities(s.snap.Accelerators, f)
}

// CoworkingSpaces returns co-working spaces matching the filter. Spaces carry
// no stage focus, so the stage field is ignored.
func (s *Store) CoworkingSpaces(_ domain.Context, f domain.EntityFilter) []domain.EcosystemEntity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f.Stage = ""
	return filterEntities(s.snap.CoworkingSpaces, f)
}

// Events returns all known ecosystem events.
func (s *Store) Events(_ domain.Context) []domain.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Event, len(s.snap.Events))
	copy(out, s.snap.Events)
	return out
}

// Counts reports dataset sizes for analytics.
func (s *Store) Counts() (investors, accelerators int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.snap.Investors), len(s.snap.Accelerators)
}

// Refresh re-parses the embedded dataset and swaps the snapshot. In-flight
// readers keep the slices they already hold.
func (s *Store) Refresh(_ domain.Context) error {
	snap, err := parseDataset()
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.snap = snap
	s.mu.Unlock()
	slog.Info("ecosystem dataset refreshed",
		slog.Int("investors", len(snap.Investors)),
		slog.Int("accelerators", len(snap.Accelerators)))
	return nil
}

func filterEntities(in []domain.EcosystemEntity, f domain.EntityFilter) []domain.EcosystemEntity {
	out := make([]domain.EcosystemEntity, 0, len(in))
	for _, e := range in {
		if f.Industry != "" && !hasIndustry(e.FocusIndustries, f.Industry) {
			continue
		}
		if f.Stage != "" && !hasStage(e.FocusStages, f.Stage) {
			continue
		}
		if f.Location != "" && e.Location != f.Location {
			continue
		}
		out = append(out, e)
	}
	return out
}

func hasIndustry(in []domain.Industry, want domain.Industry) bool {
	for _, v := range in {
		if v == want {
			return true
		}
	}
	return false
}

func hasStage(in []domain.Stage, want domain.Stage) bool {
	for _, v := range in {
		if v == want {
			return true
		}
	}
	return false
}

func hasLocation(in []domain.Location, want domain.Location) bool {
	for _, v := range in {
		if v == want {
			return true
		}
	}
	return false
}
