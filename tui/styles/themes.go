package styles

import "github.com/charmbracelet/lipgloss"

// Themes maps theme slugs to their Base16 palettes.
var Themes = map[string]Theme{
	"default-dark": {
		Name:   "Default Dark",
		Base00: lipgloss.Color("#181818"),
		Base01: lipgloss.Color("#282828"),
		Base02: lipgloss.Color("#383838"),
		Base03: lipgloss.Color("#585858"),
		Base04: lipgloss.Color("#b8b8b8"),
		Base05: lipgloss.Color("#d8d8d8"),
		Base06: lipgloss.Color("#e8e8e8"),
		Base07: lipgloss.Color("#f8f8f8"),
		Base08: lipgloss.Color("#ab4642"),
		Base09: lipgloss.Color("#dc9656"),
		Base0A: lipgloss.Color("#f7ca88"),
		Base0B: lipgloss.Color("#a1b56c"),
		Base0C: lipgloss.Color("#86c1b9"),
		Base0D: lipgloss.Color("#7cafc2"),
		Base0E: lipgloss.Color("#ba8baf"),
		Base0F: lipgloss.Color("#a16946"),
	},
	"dracula": {
		Name:   "Dracula",
		Base00: lipgloss.Color("#282936"),
		Base01: lipgloss.Color("#3a3c4e"),
		Base02: lipgloss.Color("#4d4f68"),
		Base03: lipgloss.Color("#626483"),
		Base04: lipgloss.Color("#62d6e8"),
		Base05: lipgloss.Color("#e9e9f4"),
		Base06: lipgloss.Color("#f1f2f8"),
		Base07: lipgloss.Color("#f7f7fb"),
		Base08: lipgloss.Color("#ea51b2"),
		Base09: lipgloss.Color("#b45bcf"),
		Base0A: lipgloss.Color("#00f769"),
		Base0B: lipgloss.Color("#ebff87"),
		Base0C: lipgloss.Color("#a1efe4"),
		Base0D: lipgloss.Color("#62d6e8"),
		Base0E: lipgloss.Color("#b45bcf"),
		Base0F: lipgloss.Color("#00f769"),
	},
	"eighties": {
		Name:   "Eighties",
		Base00: lipgloss.Color("#2d2d2d"),
		Base01: lipgloss.Color("#393939"),
		Base02: lipgloss.Color("#515151"),
		Base03: lipgloss.Color("#747369"),
		Base04: lipgloss.Color("#a09f93"),
		Base05: lipgloss.Color("#d3d0c8"),
		Base06: lipgloss.Color("#e8e6df"),
		Base07: lipgloss.Color("#f2f0ec"),
		Base08: lipgloss.Color("#f2777a"),
		Base09: lipgloss.Color("#f99157"),
		Base0A: lipgloss.Color("#ffcc66"),
		Base0B: lipgloss.Color("#99cc99"),
		Base0C: lipgloss.Color("#66cccc"),
		Base0D: lipgloss.Color("#6699cc"),
		Base0E: lipgloss.Color("#cc99cc"),
		Base0F: lipgloss.Color("#d27b53"),
	},
	"gruvbox-dark": {
		Name:   "Gruvbox Dark",
		Base00: lipgloss.Color("#282828"),
		Base01: lipgloss.Color("#3c3836"),
		Base02: lipgloss.Color("#504945"),
		Base03: lipgloss.Color("#665c54"),
		Base04: lipgloss.Color("#bdae93"),
		Base05: lipgloss.Color("#d5c4a1"),
		Base06: lipgloss.Color("#ebdbb2"),
		Base07: lipgloss.Color("#fbf1c7"),
		Base08: lipgloss.Color("#fb4934"),
		Base09: lipgloss.Color("#fe8019"),
		Base0A: lipgloss.Color("#fabd2f"),
		Base0B: lipgloss.Color("#b8bb26"),
		Base0C: lipgloss.Color("#8ec07c"),
		Base0D: lipgloss.Color("#83a598"),
		Base0E: lipgloss.Color("#d3869b"),
		Base0F: lipgloss.Color("#d65d0e"),
	},
	"gruvbox-light": {
		Name:   "Gruvbox Light",
		Base00: lipgloss.Color("#fbf1c7"),
		Base01: lipgloss.Color("#ebdbb2"),
		Base02: lipgloss.Color("#d5c4a1"),
		Base03: lipgloss.Color("#bdae93"),
		Base04: lipgloss.Color("#665c54"),
		Base05: lipgloss.Color("#504945"),
		Base06: lipgloss.Color("#3c3836"),
		Base07: lipgloss.Color("#282828"),
		Base08: lipgloss.Color("#9d0006"),
		Base09: lipgloss.Color("#af3a03"),
		Base0A: lipgloss.Color("#b57614"),
		Base0B: lipgloss.Color("#79740e"),
		Base0C: lipgloss.Color("#427b58"),
		Base0D: lipgloss.Color("#076678"),
		Base0E: lipgloss.Color("#8f3f71"),
		Base0F: lipgloss.Color("#d65d0e"),
	},
	"monokai": {
		Name:   "Monokai",
		Base00: lipgloss.Color("#272822"),
		Base01: lipgloss.Color("#383830"),
		Base02: lipgloss.Color("#49483e"),
		Base03: lipgloss.Color("#75715e"),
		Base04: lipgloss.Color("#a59f85"),
		Base05: lipgloss.Color("#f8f8f2"),
		Base06: lipgloss.Color("#f5f4f1"),
		Base07: lipgloss.Color("#f9f8f5"),
		Base08: lipgloss.Color("#f92672"),
		Base09: lipgloss.Color("#fd971f"),
		Base0A: lipgloss.Color("#f4bf75"),
		Base0B: lipgloss.Color("#a6e22e"),
		Base0C: lipgloss.Color("#a1efe4"),
		Base0D: lipgloss.Color("#66d9ef"),
		Base0E: lipgloss.Color("#ae81ff"),
		Base0F: lipgloss.Color("#cc6633"),
	},
	"nord": {
		Name:   "Nord",
		Base00: lipgloss.Color("#2e3440"),
		Base01: lipgloss.Color("#3b4252"),
		Base02: lipgloss.Color("#434c5e"),
		Base03: lipgloss.Color("#4c566a"),
		Base04: lipgloss.Color("#d8dee9"),
		Base05: lipgloss.Color("#e5e9f0"),
		Base06: lipgloss.Color("#eceff4"),
		Base07: lipgloss.Color("#8fbcbb"),
		Base08: lipgloss.Color("#bf616a"),
		Base09: lipgloss.Color("#d08770"),
		Base0A: lipgloss.Color("#ebcb8b"),
		Base0B: lipgloss.Color("#a3be8c"),
		Base0C: lipgloss.Color("#88c0d0"),
		Base0D: lipgloss.Color("#81a1c1"),
		Base0E: lipgloss.Color("#b48ead"),
		Base0F: lipgloss.Color("#5e81ac"),
	},
	"ocean": {
		Name:   "Ocean",
		Base00: lipgloss.Color("#2b303b"),
		Base01: lipgloss.Color("#343d46"),
		Base02: lipgloss.Color("#4f5b66"),
		Base03: lipgloss.Color("#65737e"),
		Base04: lipgloss.Color("#a7adba"),
		Base05: lipgloss.Color("#c0c5ce"),
		Base06: lipgloss.Color("#dfe1e8"),
		Base07: lipgloss.Color("#eff1f5"),
		Base08: lipgloss.Color("#bf616a"),
		Base09: lipgloss.Color("#d08770"),
		Base0A: lipgloss.Color("#ebcb8b"),
		Base0B: lipgloss.Color("#a3be8c"),
		Base0C: lipgloss.Color("#96b5b4"),
		Base0D: lipgloss.Color("#8fa1b3"),
		Base0E: lipgloss.Color("#b48ead"),
		Base0F: lipgloss.Color("#ab7967"),
	},
	"onedark": {
		Name:   "OneDark",
		Base00: lipgloss.Color("#282c34"),
		Base01: lipgloss.Color("#353b45"),
		Base02: lipgloss.Color("#3e4451"),
		Base03: lipgloss.Color("#545862"),
		Base04: lipgloss.Color("#565c64"),
		Base05: lipgloss.Color("#abb2bf"),
		Base06: lipgloss.Color("#b6bdca"),
		Base07: lipgloss.Color("#c8ccd4"),
		Base08: lipgloss.Color("#e06c75"),
		Base09: lipgloss.Color("#d19a66"),
		Base0A: lipgloss.Color("#e5c07b"),
		Base0B: lipgloss.Color("#98c379"),
		Base0C: lipgloss.Color("#56b6c2"),
		Base0D: lipgloss.Color("#61afef"),
		Base0E: lipgloss.Color("#c678dd"),
		Base0F: lipgloss.Color("#be5046"),
	},
	"solarized-dark": {
		Name:   "Solarized Dark",
		Base00: lipgloss.Color("#002b36"),
		Base01: lipgloss.Color("#073642"),
		Base02: lipgloss.Color("#586e75"),
		Base03: lipgloss.Color("#657b83"),
		Base04: lipgloss.Color("#839496"),
		Base05: lipgloss.Color("#93a1a1"),
		Base06: lipgloss.Color("#eee8d5"),
		Base07: lipgloss.Color("#fdf6e3"),
		Base08: lipgloss.Color("#dc322f"),
		Base09: lipgloss.Color("#cb4b16"),
		Base0A: lipgloss.Color("#b58900"),
		Base0B: lipgloss.Color("#859900"),
		Base0C: lipgloss.Color("#2aa198"),
		Base0D: lipgloss.Color("#268bd2"),
		Base0E: lipgloss.Color("#6c71c4"),
		Base0F: lipgloss.Color("#d33682"),
	},
	"solarized-light": {
		Name:   "Solarized Light",
		Base00: lipgloss.Color("#fdf6e3"),
		Base01: lipgloss.Color("#eee8d5"),
		Base02: lipgloss.Color("#93a1a1"),
		Base03: lipgloss.Color("#839496"),
		Base04: lipgloss.Color("#657b83"),
		Base05: lipgloss.Color("#586e75"),
		Base06: lipgloss.Color("#073642"),
		Base07: lipgloss.Color("#002b36"),
		Base08: lipgloss.Color("#dc322f"),
		Base09: lipgloss.Color("#cb4b16"),
		Base0A: lipgloss.Color("#b58900"),
		Base0B: lipgloss.Color("#859900"),
		Base0C: lipgloss.Color("#2aa198"),
		Base0D: lipgloss.Color("#268bd2"),
		Base0E: lipgloss.Color("#6c71c4"),
		Base0F: lipgloss.Color("#d33682"),
	},
	"tomorrow-night": {
		Name:   "Tomorrow Night",
		Base00: lipgloss.Color("#1d1f21"),
		Base01: lipgloss.Color("#282a2e"),
		Base02: lipgloss.Color("#373b41"),
		Base03: lipgloss.Color("#969896"),
		Base04: lipgloss.Color("#b4b7b4"),
		Base05: lipgloss.Color("#c5c8c6"),
		Base06: lipgloss.Color("#e0e0e0"),
		Base07: lipgloss.Color("#ffffff"),
		Base08: lipgloss.Color("#cc6666"),
		Base09: lipgloss.Color("#de935f"),
		Base0A: lipgloss.Color("#f0c674"),
		Base0B: lipgloss.Color("#b5bd68"),
		Base0C: lipgloss.Color("#8abeb7"),
		Base0D: lipgloss.Color("#81a2be"),
		Base0E: lipgloss.Color("#b294bb"),
		Base0F: lipgloss.Color("#a3685a"),
	},
}
