package feed

import (
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed providers/*.yml
var embeddedProviders embed.FS

const topicPlaceholder = "{topic_id}"

type Catalog struct {
	fsys  fs.FS
	cache map[string]*Profile
	mu    sync.RWMutex
}

// NewCatalog reads provider profiles from dir, or from the built-in set when dir is empty.
func NewCatalog(dir string) *Catalog {
	var fsys fs.FS
	if dir == "" {
		fsys, _ = fs.Sub(embeddedProviders, "providers")
	} else {
		fsys = os.DirFS(dir)
	}

	return &Catalog{
		fsys:  fsys,
		cache: make(map[string]*Profile),
	}
}

func (c *Catalog) Run() error {
	files, err := fs.Glob(c.fsys, "*.yml")
	if err != nil {
		return fmt.Errorf("failed to find YML files: %w", err)
	}

	if len(files) == 0 {
		return fmt.Errorf("no provider profiles found")
	}

	for _, file := range files {
		providerID := strings.TrimSuffix(path.Base(file), ".yml")

		profile, err := c.LoadProfile(providerID)
		if err != nil {
			return fmt.Errorf("error loading %s: %w", file, err)
		}

		slog.Debug("Provider profile loaded", "provider", providerID, "format", profile.Format, "topics", len(profile.Topics))
	}

	return nil
}

func (c *Catalog) LoadProfile(providerID string) (*Profile, error) {
	data, err := fs.ReadFile(c.fsys, providerID+".yml")
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	profile, err := c.parseProfile(data)
	if err != nil {
		return nil, err
	}

	profile.ID = providerID

	if err := c.validateProfile(profile); err != nil {
		return nil, fmt.Errorf("invalid profile %s: %w", providerID, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache[profile.ID] = profile

	return profile, nil
}

func (c *Catalog) GetProfile(providerID string) (*Profile, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	profile, ok := c.cache[strings.ToLower(providerID)]
	if !ok {
		return nil, &CatalogLookupError{Provider: providerID, Reason: "unknown provider"}
	}
	return profile, nil
}

// Resolve returns the profile and the concrete feed URL for a provider topic.
func (c *Catalog) Resolve(providerID, topic string) (*Profile, string, error) {
	profile, err := c.GetProfile(providerID)
	if err != nil {
		return nil, "", err
	}

	topicID, ok := profile.Topics[topic]
	if !ok {
		return nil, "", &CatalogLookupError{
			Provider: providerID,
			Topic:    topic,
			Reason:   fmt.Sprintf("unknown topic, available: %s", strings.Join(profile.TopicNames(), ", ")),
		}
	}

	return profile, strings.ReplaceAll(profile.URLTemplate, topicPlaceholder, topicID), nil
}

func (c *Catalog) GetProfiles() []*Profile {
	c.mu.RLock()
	defer c.mu.RUnlock()

	profiles := make([]*Profile, 0, len(c.cache))
	for _, p := range c.cache {
		profiles = append(profiles, p)
	}
	sort.Slice(profiles, func(i, j int) bool { return profiles[i].ID < profiles[j].ID })
	return profiles
}

func (c *Catalog) GetProfileCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.cache)
}

func (c *Catalog) parseProfile(data []byte) (*Profile, error) {
	var profile Profile
	if err := yaml.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if profile.Format == "" {
		profile.Format = FormatRSS
	}
	if profile.ItemPath == "" {
		profile.ItemPath = "./channel/item"
	}
	if profile.FeedKind == "" {
		profile.FeedKind = DefaultFeedKind
	}

	return &profile, nil
}

func (c *Catalog) validateProfile(profile *Profile) error {
	if profile == nil {
		return fmt.Errorf("profile is nil")
	}

	requiredFields := map[string]string{
		"provider name": profile.Name,
		"URL template":  profile.URLTemplate,
	}

	for fieldName, fieldValue := range requiredFields {
		if fieldValue == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
	}

	switch profile.Format {
	case FormatRSS, FormatAtom:
	default:
		return fmt.Errorf("unsupported format: %s", profile.Format)
	}

	if !strings.Contains(profile.URLTemplate, topicPlaceholder) {
		return fmt.Errorf("URL template must contain %s", topicPlaceholder)
	}

	if _, err := compileItemPath(profile.ItemPath); err != nil {
		return err
	}

	if len(profile.Topics) == 0 {
		return fmt.Errorf("at least one topic is required")
	}

	for topic, id := range profile.Topics {
		if id == "" {
			return fmt.Errorf("topic %s has an empty feed id", topic)
		}
	}

	return nil
}

func (p *Profile) TopicNames() []string {
	names := make([]string, 0, len(p.Topics))
	for name := range p.Topics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
