package catalog

import (
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"os"
	"sort"
	"strings"
	"sync"
)

// NotableLimit caps the number of systems returned by NotableSystems.
const NotableLimit = 12

// Store is an in-memory, read-only catalog grouped by host star.
type Store struct {
	systems []*StarSystem          // sorted by star name
	byStar  map[string]*StarSystem // star name -> system

	mu  sync.Mutex // guards rng
	rng *rand.Rand
}

// NewStore groups planet records into systems. The seed makes the random
// selectors reproducible.
func NewStore(planets []*Planet, seed int64) *Store {
	grouped := make(map[string][]*Planet)
	var order []string
	for _, p := range planets {
		if p == nil || p.HostStar == "" {
			continue
		}
		if _, ok := grouped[p.HostStar]; !ok {
			order = append(order, p.HostStar)
		}
		grouped[p.HostStar] = append(grouped[p.HostStar], p)
	}

	s := &Store{
		byStar: make(map[string]*StarSystem, len(order)),
		rng:    rand.New(rand.NewSource(seed)),
	}
	for _, name := range order {
		sys := NewStarSystem(name, grouped[name])
		s.systems = append(s.systems, sys)
		s.byStar[name] = sys
	}
	sort.Slice(s.systems, func(i, j int) bool {
		return s.systems[i].StarName < s.systems[j].StarName
	})
	return s
}

// Systems returns every system sorted by star name.
func (s *Store) Systems() []*StarSystem {
	out := make([]*StarSystem, len(s.systems))
	copy(out, s.systems)
	return out
}

// SystemForStar looks a system up by host star name.
func (s *Store) SystemForStar(name string) (*StarSystem, bool) {
	sys, ok := s.byStar[name]
	return sys, ok
}

// NotableSystems returns crowded or nearby systems, most planets first.
func (s *Store) NotableSystems() []*StarSystem {
	var out []*StarSystem
	for _, sys := range s.systems {
		if len(sys.Planets) >= 3 || (sys.Distance != nil && *sys.Distance <= 50) {
			out = append(out, sys)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return len(out[i].Planets) > len(out[j].Planets)
	})
	if len(out) > NotableLimit {
		out = out[:NotableLimit]
	}
	return out
}

// RandomSystem returns a random system, or nil for an empty store.
func (s *Store) RandomSystem() *StarSystem {
	if len(s.systems) == 0 {
		return nil
	}
	s.mu.Lock()
	idx := s.rng.Intn(len(s.systems))
	s.mu.Unlock()
	return s.systems[idx]
}

// RandomPlanet returns a random planet, or nil for an empty store.
func (s *Store) RandomPlanet() *Planet {
	sys := s.RandomSystem()
	if sys == nil || len(sys.Planets) == 0 {
		return nil
	}
	s.mu.Lock()
	idx := s.rng.Intn(len(sys.Planets))
	s.mu.Unlock()
	return sys.Planets[idx]
}

// Search returns systems whose star or planet names contain query,
// case-insensitively. An empty query matches nothing.
func (s *Store) Search(query string) []*StarSystem {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	var out []*StarSystem
	for _, sys := range s.systems {
		if strings.Contains(strings.ToLower(sys.StarName), q) {
			out = append(out, sys)
			continue
		}
		for _, p := range sys.Planets {
			if strings.Contains(strings.ToLower(p.Name), q) {
				out = append(out, sys)
				break
			}
		}
	}
	return out
}

// Decode reads a JSON array of planet records.
func Decode(r io.Reader) ([]*Planet, error) {
	var planets []*Planet
	if err := json.NewDecoder(r).Decode(&planets); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	for i, p := range planets {
		if p == nil || p.Name == "" || p.HostStar == "" {
			return nil, fmt.Errorf("decode catalog: record %d missing name or hostStar", i)
		}
	}
	return planets, nil
}

// LoadFile reads a JSON catalog from disk.
func LoadFile(path string) ([]*Planet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()
	return Decode(f)
}
