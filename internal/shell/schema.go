// Package shell declares the configuration schema for the Lume shell.
//
// The schema is the static description the config engine validates
// against: one node per settable path with kind, default, constraints
// and documentation. UI modules and service adapters read these paths
// through the engine; they never parse files themselves.
package shell

import "github.com/lumeshell/lume/internal/config/schema"

// SchemaVersion tags emitted schema documents.
const SchemaVersion = "0.3.0"

// Schema builds the configuration schema root.
func Schema() *schema.Node {
	return schema.Table("Lume shell configuration", map[string]*schema.Node{
		"general": schema.Table("Shell-wide settings", map[string]*schema.Node{
			"theme":     schema.String("Active theme name.").WithDefault("nightfall"),
			"animation": schema.Bool("Enable panel animations.").WithDefault(true),
			"scale":     schema.Number("Global UI scale multiplier.").WithRange(0.5, 3).WithDefault(1.0),
		}),
		"bar": schema.Table("Status bar", map[string]*schema.Node{
			"location": schema.Enum("Screen edge the bar docks to.",
				"top", "bottom", "left", "right").WithDefault("top"),
			"scale":  schema.Number("Bar-specific scale multiplier.").WithRange(0.5, 3).WithDefault(1.0),
			"height": schema.Number("Bar height in pixels before scaling.").WithRange(16, 128).WithDefault(32),
			"modules-left": schema.Array("Modules on the leading edge.",
				schema.String("Module name.")).WithDefault([]string{"workspaces", "window-title"}),
			"modules-right": schema.Array("Modules on the trailing edge.",
				schema.String("Module name.")).WithDefault([]string{"tray", "network", "battery", "clock"}),
		}),
		"clock": schema.Table("Clock module", map[string]*schema.Node{
			"format":   schema.String("strftime-style time format.").WithDefault("%H:%M"),
			"interval": schema.Number("Refresh interval in seconds.").WithMin(1).WithDefault(1),
		}),
		"battery": schema.Table("Battery module", map[string]*schema.Node{
			"charging-icon": schema.String("Icon shown while charging.").WithDefault("battery-bolt"),
			"label-show":    schema.Bool("Display the percentage label.").WithDefault(true),
			"warn-level":    schema.Number("Percentage that triggers the low warning.").WithRange(0, 100).WithDefault(15),
		}),
		"network": schema.Table("Network module", map[string]*schema.Node{
			"interface": schema.String("Interface to report; empty selects automatically.").
				WithPattern(`^[a-z0-9-]*$`).WithDefault(""),
			"show-speed": schema.Bool("Display transfer rates.").WithDefault(false),
		}),
		"notifications": schema.Table("Notification daemon", map[string]*schema.Node{
			"timeout":  schema.Number("Popup timeout in seconds.").WithRange(1, 120).WithDefault(8),
			"position": schema.Enum("Popup corner.", "top-left", "top-right", "bottom-left", "bottom-right").WithDefault("top-right"),
		}),
	})
}
