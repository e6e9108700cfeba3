package schema

// Charset option values are the Windows GDI charset identifiers the
// Creation Kit passes to CreateFont.
var charsets = []EnumOption{
	{Label: "ANSI_CHARSET", Value: 0},
	{Label: "DEFAULT_CHARSET", Value: 1},
	{Label: "SYMBOL_CHARSET", Value: 2},
	{Label: "SHIFTJIS_CHARSET", Value: 128},
	{Label: "HANGEUL_CHARSET", Value: 129},
	{Label: "GB2312_CHARSET", Value: 134},
	{Label: "CHINESEBIG5_CHARSET", Value: 136},
	{Label: "OEM_CHARSET", Value: 255},
	{Label: "JOHAB_CHARSET", Value: 130},
	{Label: "HEBREW_CHARSET", Value: 177},
	{Label: "ARABIC_CHARSET", Value: 178},
	{Label: "GREEK_CHARSET", Value: 161},
	{Label: "TURKISH_CHARSET", Value: 162},
	{Label: "VIETNAMESE_CHARSET", Value: 163},
	{Label: "THAI_CHARSET", Value: 222},
	{Label: "EASTEUROPE_CHARSET", Value: 238},
	{Label: "RUSSIAN_CHARSET", Value: 204},
	{Label: "MAC_CHARSET", Value: 77},
	{Label: "BALTIC_CHARSET", Value: 186},
}

var themes = []EnumOption{
	{Label: "Lighter", Value: 0},
	{Label: "Darker", Value: 1},
	{Label: "Custom", Value: 2},
}

func i64(n int64) *int64 { return &n }

// Builtin returns the catalog of settings Creation Kit Platform
// Extended ships. Keys not listed here are still editable; their specs
// are inferred from the value on file.
func Builtin() *Schema {
	return New(
		&SectionSpec{
			Name: "CreationKit",
			Doc:  "Core Creation Kit patches",
			Keys: []*KeySpec{
				{
					Key:     "bBSPointerHandleExtremly",
					Type:    TypeBool,
					Default: "false",
					Doc:     "Raise the reference handle limit from 1M to 8M. Saves made with this enabled require CKPE to load",
				},
				{
					Key:     "bSkipFileCheck",
					Type:    TypeBool,
					Default: "true",
					Doc:     "Skip the file integrity check on startup",
				},
				{
					Key:     "bOwnArchiveLoader",
					Type:    TypeBool,
					Default: "true",
					Doc:     "Use the replacement BSA loader instead of the stock one",
				},
				{
					Key:     "bAllowSaveESM",
					Type:    TypeBool,
					Default: "false",
					Doc:     "Allow saving master files directly",
				},
				{
					Key:     "bAllowMasterESP",
					Type:    TypeBool,
					Default: "false",
					Doc:     "Allow loading plugins flagged as masters",
				},
				{
					Key:     "bVersionControlMergeWorkaround",
					Type:    TypeBool,
					Default: "false",
					Doc:     "Workaround for version control merges losing ONAM data",
				},
				{
					Key:     "bUnicode",
					Type:    TypeBool,
					Default: "false",
					Doc:     "Convert strings between UTF-8 and the active codepage when loading and saving plugins",
				},
				{
					Key:     "nCharset",
					Type:    TypeEnum,
					Default: "1",
					Enum:    charsets,
					Doc:     "Charset used for Creation Kit fonts",
				},
			},
		},
		&SectionSpec{
			Name: "Facegen",
			Doc:  "FaceGen export behavior",
			Keys: []*KeySpec{
				{
					Key:     "bDisableAutoFaceGen",
					Type:    TypeBool,
					Default: "false",
					Doc:     "Do not regenerate facegen data when an NPC is edited",
				},
				{
					Key:     "bDisableExportDDS",
					Type:    TypeBool,
					Default: "false",
					Doc:     "Skip writing DDS face tint textures",
				},
				{
					Key:     "bDisableExportTGA",
					Type:    TypeBool,
					Default: "false",
					Doc:     "Skip writing TGA face tint textures",
				},
				{
					Key:      "uTintMaskResolution",
					Type:     TypeUint,
					Default:  "512",
					FreeText: true,
					Doc:      "Resolution of exported tint masks",
				},
			},
		},
		&SectionSpec{
			Name: "Graphics",
			Doc:  "Render window behavior",
			Keys: []*KeySpec{
				{
					Key:     "bRenderWindowVSync",
					Type:    TypeBool,
					Default: "true",
					Doc:     "Vertical sync in the render window",
				},
				{
					Key:     "bAntiAliasing",
					Type:    TypeBool,
					Default: "true",
					Doc:     "Anti-aliasing in the render window",
				},
				{
					Key:     "uTextureCacheSizeMB",
					Type:    TypeUint,
					Default: "256",
					Min:     i64(64),
					Max:     i64(4096),
					Doc:     "Texture cache budget in megabytes",
				},
			},
		},
		&SectionSpec{
			Name: "Audio",
			Keys: []*KeySpec{
				{
					Key:     "bEnableAudio",
					Type:    TypeBool,
					Default: "true",
					Doc:     "Play sounds inside the Creation Kit",
				},
				{
					Key:     "fMasterVolume",
					Type:    TypeFloat,
					Default: "1.0",
					Min:     i64(0),
					Max:     i64(1),
					Doc:     "Master volume, 0.0 to 1.0",
				},
			},
		},
		&SectionSpec{
			Name: "Theme",
			Doc:  "Editor window theme",
			Keys: []*KeySpec{
				{
					Key:     "uUIDarkThemeId",
					Type:    TypeEnum,
					Default: "1",
					Enum:    themes,
					Doc:     "Dark theme variant",
				},
				{
					Key:     "bUIClassicTheme",
					Type:    TypeBool,
					Default: "false",
					Doc:     "Use the unthemed classic look",
				},
				{
					Key:     "sCustomThemePath",
					Type:    TypeString,
					Default: "",
					Doc:     "Path to a custom theme file, used when the theme id is Custom",
				},
			},
		},
		&SectionSpec{
			Name:     "Log",
			Doc:      "Creation Kit log output",
			FreeText: true,
			Keys: []*KeySpec{
				{
					Key:     "sOutputFile",
					Type:    TypeString,
					Default: "CreationKit.log",
					Doc:     "File the Creation Kit log is written to",
				},
			},
		},
		&SectionSpec{
			Name:     "Hotkeys",
			Doc:      "Editor hotkey overrides, one key combination per entry",
			FreeText: true,
		},
	)
}
