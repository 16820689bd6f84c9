package httpapi

import "fmt"

// apiLevel is the contract between the core and its feature modules.
// Bump it when a module-facing surface changes incompatibly.
const apiLevel = 3

// Manifest describes one feature module baked into this build. The
// registry is static; a manifest that does not match the running
// platform is a construction error, not a skipped module.
type Manifest struct {
	Name           string `json:"name"`
	APILevel       int    `json:"api_level"`
	TargetPlatform string `json:"target_platform"`
}

// moduleRegistry pins each module to the platform release it was built
// against. A platform bump without revalidating the modules fails at
// startup instead of loading stale code paths.
var moduleRegistry = []Manifest{
	{Name: "server-console", APILevel: 3, TargetPlatform: "0.5.0"},
	{Name: "server-users", APILevel: 3, TargetPlatform: "0.5.0"},
	{Name: "plugin-market", APILevel: 3, TargetPlatform: "0.5.0"},
	{Name: "activity-log", APILevel: 3, TargetPlatform: "0.5.0"},
}

func checkModules(modules []Manifest, platform string) error {
	for _, m := range modules {
		if m.APILevel != apiLevel {
			return fmt.Errorf("module %q targets API level %d, this build requires %d", m.Name, m.APILevel, apiLevel)
		}
		if m.TargetPlatform != platform {
			return fmt.Errorf("module %q targets platform %q, running %q", m.Name, m.TargetPlatform, platform)
		}
	}
	return nil
}
