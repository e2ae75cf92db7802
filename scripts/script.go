// Package scripts contains the per-platform research flows. Each script
// drives a browser session through one platform's parental-control surfaces
// and returns a structured result; a generic fallback covers platforms
// without a dedicated flow.
package scripts

import (
	"context"
	"time"

	"platform-research/models"
	"platform-research/registry"
	"platform-research/session"
)

// Options carries per-run settings into a script invocation.
type Options struct {
	// ScreenshotDir is the root under which each platform gets its own
	// screenshot directory.
	ScreenshotDir string
	// StepDelay is the fixed pause used after navigations and clicks to let
	// client-side transitions settle. Tests shrink it to near zero.
	StepDelay time.Duration
	// Researcher tags results with who (or what) produced them.
	Researcher string
	// Trigger records how the run was started.
	Trigger models.TriggerType
}

func (o Options) delay() time.Duration {
	if o.StepDelay > 0 {
		return o.StepDelay
	}
	return 2 * time.Second
}

// Script is the unit of automation logic for one platform.
type Script interface {
	Research(ctx context.Context, drv session.Driver, platform registry.Platform, creds *models.Credentials, opts Options) *models.PlatformResearchResult
}

// scriptRegistry maps platform id to its dedicated flow. Adding a platform
// means adding a file with its Script and an entry here.
var scriptRegistry = map[string]Script{
	"netflix":        netflixScript{},
	"disneyplus":     disneyPlusScript{},
	"youtube":        youtubeScript{},
	"roblox":         robloxScript{},
	"instagram":      instagramScript{},
	"tiktok":         tiktokScript{},
	"ios-screentime": iosScreenTimeScript{},
}

// Has reports whether a dedicated script exists for the platform. The
// scheduled worker only selects platforms that have one; the one-shot runner
// falls back to the generic flow instead.
func Has(id string) bool {
	_, ok := scriptRegistry[id]
	return ok
}

// Lookup returns the dedicated script for a platform, or the generic
// fallback when none is registered.
func Lookup(id string) Script {
	if s, ok := scriptRegistry[id]; ok {
		return s
	}
	return GenericScript{}
}
