// Package poseschema holds the landmark catalogs frames are expressed in: the landmark
// count, the angle triplets measured on them and the bones drawn between them.
package poseschema

import (
	"encoding/binary"
	"fmt"
	"sort"

	"github.com/zeebo/xxh3"
)

// AngleDefinition measures the included angle at Vertex between A and B.
type AngleDefinition struct {
	Joint  Joint
	A      int
	Vertex int
	B      int
}

// Bone connects two landmarks for skeleton projection.
type Bone struct {
	From int
	To   int
}

type Schema struct {
	Name string

	// Size is the number of landmark records a complete snapshot carries.
	Size int

	// MinLandmarks is the minimum number of records a snapshot must carry
	// before any angle is derived from it.
	MinLandmarks int

	// Angles is the angle catalog, in the order verdicts are reported.
	Angles []AngleDefinition

	Bones []Bone

	// LandmarkNames is optional and only used for diagnostics.
	LandmarkNames []string

	hash string
}

// CatalogHash fingerprints the schema's angle catalog. A reference whose stored hash differs
// from the running schema's has its angles re-derived from its raw landmarks.
func (s *Schema) CatalogHash() string {
	return s.hash
}

// AngleIndex returns the catalog position of j, or -1 when j is not measured by this schema.
func (s *Schema) AngleIndex(j Joint) int {
	for i, def := range s.Angles {
		if def.Joint == j {
			return i
		}
	}
	return -1
}

// Definition returns the angle definition for j.
func (s *Schema) Definition(j Joint) (AngleDefinition, bool) {
	if i := s.AngleIndex(j); i >= 0 {
		return s.Angles[i], true
	}
	return AngleDefinition{}, false
}

func (s *Schema) LandmarkName(index int) string {
	if index >= 0 && index < len(s.LandmarkNames) {
		return s.LandmarkNames[index]
	}
	return fmt.Sprintf("landmark_%d", index)
}

func (s *Schema) validate() error {
	if s.Size <= 0 {
		return fmt.Errorf("poseschema %s: size must be positive", s.Name)
	}
	if s.MinLandmarks <= 0 || s.MinLandmarks > s.Size {
		return fmt.Errorf("poseschema %s: min landmarks %d out of range (0, %d]", s.Name, s.MinLandmarks, s.Size)
	}
	if len(s.LandmarkNames) != 0 && len(s.LandmarkNames) != s.Size {
		return fmt.Errorf("poseschema %s: %d landmark names for %d landmarks", s.Name, len(s.LandmarkNames), s.Size)
	}

	seen := make(map[Joint]struct{}, len(s.Angles))
	for _, def := range s.Angles {
		if !def.Joint.Valid() {
			return fmt.Errorf("poseschema %s: invalid joint %d", s.Name, def.Joint)
		}
		if _, ok := seen[def.Joint]; ok {
			return fmt.Errorf("poseschema %s: joint %s defined twice", s.Name, def.Joint)
		}
		seen[def.Joint] = struct{}{}

		for _, idx := range [...]int{def.A, def.Vertex, def.B} {
			if idx < 0 || idx >= s.Size {
				return fmt.Errorf("poseschema %s: joint %s references landmark %d outside [0, %d)", s.Name, def.Joint, idx, s.Size)
			}
		}
		if def.A == def.Vertex || def.B == def.Vertex {
			return fmt.Errorf("poseschema %s: joint %s uses its vertex as an arm", s.Name, def.Joint)
		}
	}

	for _, bone := range s.Bones {
		if bone.From < 0 || bone.From >= s.Size || bone.To < 0 || bone.To >= s.Size {
			return fmt.Errorf("poseschema %s: bone %d-%d outside [0, %d)", s.Name, bone.From, bone.To, s.Size)
		}
		if bone.From == bone.To {
			return fmt.Errorf("poseschema %s: bone %d-%d connects a landmark to itself", s.Name, bone.From, bone.To)
		}
	}

	return nil
}

func (s *Schema) computeHash() {
	h := xxh3.New()
	buf := make([]byte, 8)
	write := func(v int) {
		binary.LittleEndian.PutUint64(buf, uint64(v))
		_, _ = h.Write(buf)
	}

	_, _ = h.WriteString(s.Name)
	write(s.Size)
	for _, def := range s.Angles {
		write(int(def.Joint))
		write(def.A)
		write(def.Vertex)
		write(def.B)
	}
	s.hash = fmt.Sprintf("%016x", h.Sum64())
}

var registry = map[string]*Schema{}

func register(s *Schema) {
	if err := s.validate(); err != nil {
		panic(err)
	}
	s.computeHash()
	registry[s.Name] = s
}

func init() {
	register(BlazePose33)
	register(COCO15)
}

func Lookup(name string) (*Schema, error) {
	s, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("poseschema: unknown schema %q (available: %v)", name, Names())
	}
	return s, nil
}

func MustLookup(name string) *Schema {
	s, err := Lookup(name)
	if err != nil {
		panic(err)
	}
	return s
}

func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
