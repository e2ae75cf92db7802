// Package registry holds the static catalog of research targets: which
// third-party platforms exist, where their parental-control surfaces live,
// and which environment keys carry their credentials.
package registry

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"platform-research/models"
)

// Platform is the immutable descriptor for one research target.
type Platform struct {
	ID          string          `yaml:"id"`
	Name        string          `yaml:"name"`
	Category    models.Category `yaml:"category"`
	EmailKey    string          `yaml:"email_key"`
	PasswordKey string          `yaml:"password_key"`
	WebsiteURL  string          `yaml:"website_url"`
	LoginURL    string          `yaml:"login_url"`
	ControlsURL string          `yaml:"controls_url"`
}

// RequiresLogin reports whether the platform needs credentials at all.
// Device-settings platforms are researched without an account.
func (p Platform) RequiresLogin() bool {
	return p.EmailKey != "" || p.PasswordKey != ""
}

func builtin() []Platform {
	return []Platform{
		{
			ID: "netflix", Name: "Netflix", Category: models.CategoryStreaming,
			EmailKey: "NETFLIX_EMAIL", PasswordKey: "NETFLIX_PASSWORD",
			WebsiteURL:  "https://www.netflix.com",
			LoginURL:    "https://www.netflix.com/login",
			ControlsURL: "https://www.netflix.com/account/profiles",
		},
		{
			ID: "disneyplus", Name: "Disney+", Category: models.CategoryStreaming,
			EmailKey: "DISNEYPLUS_EMAIL", PasswordKey: "DISNEYPLUS_PASSWORD",
			WebsiteURL:  "https://www.disneyplus.com",
			LoginURL:    "https://www.disneyplus.com/login",
			ControlsURL: "https://www.disneyplus.com/edit-profiles",
		},
		{
			ID: "youtube", Name: "YouTube", Category: models.CategoryStreaming,
			EmailKey: "YOUTUBE_EMAIL", PasswordKey: "YOUTUBE_PASSWORD",
			WebsiteURL:  "https://www.youtube.com",
			LoginURL:    "https://accounts.google.com/ServiceLogin?service=youtube",
			ControlsURL: "https://www.youtube.com/account",
		},
		{
			ID: "roblox", Name: "Roblox", Category: models.CategoryGaming,
			EmailKey: "ROBLOX_EMAIL", PasswordKey: "ROBLOX_PASSWORD",
			WebsiteURL:  "https://www.roblox.com",
			LoginURL:    "https://www.roblox.com/login",
			ControlsURL: "https://www.roblox.com/my/account#!/parental-controls",
		},
		{
			ID: "playstation", Name: "PlayStation Network", Category: models.CategoryGaming,
			EmailKey: "PLAYSTATION_EMAIL", PasswordKey: "PLAYSTATION_PASSWORD",
			WebsiteURL:  "https://www.playstation.com",
			LoginURL:    "https://my.account.sony.com/central/signin/",
			ControlsURL: "https://www.playstation.com/acct/family-management",
		},
		{
			ID: "xbox", Name: "Xbox", Category: models.CategoryGaming,
			EmailKey: "XBOX_EMAIL", PasswordKey: "XBOX_PASSWORD",
			WebsiteURL:  "https://www.xbox.com",
			LoginURL:    "https://login.live.com",
			ControlsURL: "https://account.microsoft.com/family",
		},
		{
			ID: "instagram", Name: "Instagram", Category: models.CategorySocial,
			EmailKey: "INSTAGRAM_EMAIL", PasswordKey: "INSTAGRAM_PASSWORD",
			WebsiteURL:  "https://www.instagram.com",
			LoginURL:    "https://www.instagram.com/accounts/login/",
			ControlsURL: "https://www.instagram.com/accounts/supervision/",
		},
		{
			ID: "tiktok", Name: "TikTok", Category: models.CategorySocial,
			EmailKey: "TIKTOK_EMAIL", PasswordKey: "TIKTOK_PASSWORD",
			WebsiteURL:  "https://www.tiktok.com",
			LoginURL:    "https://www.tiktok.com/login",
			ControlsURL: "https://www.tiktok.com/safety/youth-portal",
		},
		{
			ID: "snapchat", Name: "Snapchat", Category: models.CategorySocial,
			EmailKey: "SNAPCHAT_EMAIL", PasswordKey: "SNAPCHAT_PASSWORD",
			WebsiteURL:  "https://www.snapchat.com",
			LoginURL:    "https://accounts.snapchat.com/accounts/login",
			ControlsURL: "https://family.snapchat.com",
		},
		{
			ID: "ios-screentime", Name: "iOS Screen Time", Category: models.CategoryDevice,
			WebsiteURL:  "https://support.apple.com/en-us/HT208982",
			ControlsURL: "https://support.apple.com/en-us/HT201304",
		},
		{
			ID: "google-family-link", Name: "Google Family Link", Category: models.CategoryDevice,
			WebsiteURL:  "https://families.google.com/familylink/",
			ControlsURL: "https://familylink.google.com",
		},
	}
}

// Registry is the ordered set of known platforms. Declaration order is part
// of the selection contract and must stay deterministic.
type Registry struct {
	platforms []Platform
	index     map[string]int
}

// New returns a registry populated with the built-in platforms.
func New() *Registry {
	r := &Registry{index: make(map[string]int)}
	for _, p := range builtin() {
		r.add(p)
	}
	return r
}

func (r *Registry) add(p Platform) {
	if i, ok := r.index[p.ID]; ok {
		r.platforms[i] = p
		return
	}
	r.index[p.ID] = len(r.platforms)
	r.platforms = append(r.platforms, p)
}

type extensionFile struct {
	Platforms []Platform `yaml:"platforms"`
}

// LoadExtensions merges platform descriptors from a YAML file into the
// registry. A missing or malformed file is logged and ignored so that a bad
// drop-in never blocks a run.
func (r *Registry) LoadExtensions(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logrus.Warnf("platform extensions unreadable at %s: %v", path, err)
		}
		return
	}

	var ext extensionFile
	if err := yaml.Unmarshal(data, &ext); err != nil {
		logrus.Warnf("platform extensions ignored, bad YAML in %s: %v", path, err)
		return
	}

	count := 0
	for _, p := range ext.Platforms {
		if p.ID == "" || p.Name == "" {
			continue
		}
		r.add(p)
		count++
	}
	if count > 0 {
		logrus.Infof("loaded %d platform descriptor(s) from %s", count, path)
	}
}

// All returns the platforms in registry order.
func (r *Registry) All() []Platform {
	out := make([]Platform, len(r.platforms))
	copy(out, r.platforms)
	return out
}

// ByID looks up a single platform.
func (r *Registry) ByID(id string) (Platform, bool) {
	i, ok := r.index[id]
	if !ok {
		return Platform{}, false
	}
	return r.platforms[i], true
}

// ByCategory returns all platforms in a category, in registry order.
func (r *Registry) ByCategory(cat models.Category) []Platform {
	var out []Platform
	for _, p := range r.platforms {
		if p.Category == cat {
			out = append(out, p)
		}
	}
	return out
}

// ValidCategory reports whether the name is one of the known categories.
func ValidCategory(name string) (models.Category, error) {
	switch models.Category(name) {
	case models.CategoryStreaming, models.CategoryGaming, models.CategorySocial, models.CategoryDevice:
		return models.Category(name), nil
	}
	return "", fmt.Errorf("unknown category: %s", name)
}
