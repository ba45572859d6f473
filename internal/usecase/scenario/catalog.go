package scenario

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"text/template"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/canton09/aisales/internal/domain/entities"
)

//go:embed scenarios.yaml
var builtin []byte

// TranscriptMode selects which conversation list the model is asked to return
type TranscriptMode string

const (
	ModeFull       TranscriptMode = "full"
	ModeKeyMoments TranscriptMode = "key_moments"
)

// Scenario is one canned analysis configuration
type Scenario struct {
	Key               string         `yaml:"key" json:"key" validate:"required"`
	Title             string         `yaml:"title" json:"title" validate:"required"`
	Persona           string         `yaml:"persona" json:"persona"`
	SystemInstruction string         `yaml:"system_instruction" json:"-" validate:"required"`
	UserTemplate      string         `yaml:"user_template" json:"-" validate:"required"`
	TranscriptMode    TranscriptMode `yaml:"transcript_mode" json:"transcript_mode" validate:"required,oneof=full key_moments"`
	WrapperKeys       []string       `yaml:"wrapper_keys" json:"wrapper_keys,omitempty"`
	Sample            string         `yaml:"sample" json:"sample,omitempty"`

	system *template.Template
	user   *template.Template
}

// KeyMoments reports whether the scenario asks for condensed key moments
func (s *Scenario) KeyMoments() bool {
	return s.TranscriptMode == ModeKeyMoments
}

type catalogFile struct {
	Default   string      `yaml:"default"`
	Structure string      `yaml:"structure"`
	Scenarios []*Scenario `yaml:"scenarios"`
}

// Catalog holds the scenarios available to the analysis service.
// It is safe for concurrent use. LoadFile swaps the whole set at once.
type Catalog struct {
	mu        sync.RWMutex
	scenarios map[string]*Scenario
	order     []string
	def       string
	preferred string
	structure *template.Template

	validate *validator.Validate
	logger   *zap.Logger
}

// NewCatalog loads the embedded scenarios
func NewCatalog(logger *zap.Logger) (*Catalog, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Catalog{
		validate: validator.New(),
		logger:   logger,
	}
	if err := c.load(builtin); err != nil {
		return nil, fmt.Errorf("failed to load built-in scenarios: %w", err)
	}
	return c, nil
}

// LoadFile overlays scenarios from a YAML file on top of the built-ins.
// Calling it again replaces the previous overlay.
func (c *Catalog) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read scenario file: %w", err)
	}
	if err := c.load(builtin, data); err != nil {
		return fmt.Errorf("invalid scenario file %s: %w", path, err)
	}
	c.logger.Info("scenario.catalog.loaded", zap.String("path", path), zap.Strings("keys", c.Keys()))
	return nil
}

// load parses the layers in order and swaps the result in.
// Nothing changes if any layer is invalid.
func (c *Catalog) load(layers ...[]byte) error {
	var (
		structure *template.Template
		def       string
		next      = make(map[string]*Scenario)
		order     []string
	)

	for _, data := range layers {
		var f catalogFile
		if err := yaml.Unmarshal(data, &f); err != nil {
			return fmt.Errorf("failed to parse yaml: %w", err)
		}

		if f.Structure != "" {
			t, err := template.New("structure").Parse(f.Structure)
			if err != nil {
				return fmt.Errorf("structure template: %w", err)
			}
			structure = t
		}

		for _, s := range f.Scenarios {
			if err := c.compile(s); err != nil {
				return err
			}
			if _, exists := next[s.Key]; !exists {
				order = append(order, s.Key)
			}
			next[s.Key] = s
		}

		if f.Default != "" {
			def = f.Default
		}
	}

	if structure == nil {
		return fmt.Errorf("structure template missing")
	}
	if len(next) == 0 {
		return fmt.Errorf("no scenarios defined")
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := next[c.preferred]; ok {
		def = c.preferred
	}
	if _, ok := next[def]; !ok {
		def = order[0]
	}

	c.scenarios = next
	c.order = order
	c.def = def
	c.structure = structure
	return nil
}

// SetDefault makes key the default scenario, overriding the catalog file.
// The override survives later reloads as long as the key still exists.
func (c *Catalog) SetDefault(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	key = strings.TrimSpace(key)
	if _, ok := c.scenarios[key]; !ok {
		return fmt.Errorf("%w: %s", entities.ErrUnknownScenario, key)
	}
	c.preferred = key
	c.def = key
	return nil
}

func (c *Catalog) compile(s *Scenario) error {
	s.Key = strings.TrimSpace(s.Key)
	if err := c.validate.Struct(s); err != nil {
		return fmt.Errorf("scenario %q: %w", s.Key, err)
	}
	var err error
	if s.system, err = template.New(s.Key + ".system").Parse(s.SystemInstruction); err != nil {
		return fmt.Errorf("scenario %q system_instruction: %w", s.Key, err)
	}
	if s.user, err = template.New(s.Key + ".user").Parse(s.UserTemplate); err != nil {
		return fmt.Errorf("scenario %q user_template: %w", s.Key, err)
	}
	return nil
}

// Get returns the scenario for key. An empty key yields the default scenario.
func (c *Catalog) Get(key string) (*Scenario, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	key = strings.TrimSpace(key)
	if key == "" {
		key = c.def
	}
	s, ok := c.scenarios[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", entities.ErrUnknownScenario, key)
	}
	return s, nil
}

// Default returns the default scenario key
func (c *Catalog) Default() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.def
}

// List returns scenarios in catalog order
func (c *Catalog) List() []*Scenario {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]*Scenario, 0, len(c.order))
	for _, k := range c.order {
		out = append(out, c.scenarios[k])
	}
	return out
}

// Keys returns the sorted scenario keys
func (c *Catalog) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	keys := append([]string(nil), c.order...)
	sort.Strings(keys)
	return keys
}
