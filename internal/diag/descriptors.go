package diag

// Generator diagnostics (FLSG) are produced while building the accessor class.
var (
	CouldNotFindResourceDictionaries = Descriptor{
		Code:     "FLSG0001",
		Title:    "Could not find resource dictionaries",
		Format:   "Could not find resource dictionaries. There must be a file named [LANG].xaml file (for example, en.xaml), and it must be specified in <AdditionalFiles /> in your .csproj file.",
		Severity: SeverityWarning,
	}
	CouldNotFindPluginEntryClass = Descriptor{
		Code:     "FLSG0002",
		Title:    "Could not find the main class of plugin",
		Format:   "Could not find the main class of your plugin. It must implement IPluginI18n.",
		Severity: SeverityWarning,
	}
	ContextPropertyNotStatic = Descriptor{
		Code:     "FLSG0004",
		Title:    "Plugin context property is not static",
		Format:   "Context property '%s' is not static. It must be static.",
		Severity: SeverityError,
	}
	ContextPropertyIsPrivate = Descriptor{
		Code:     "FLSG0005",
		Title:    "Plugin context property is private",
		Format:   "Context property '%s' is private. It must be internal or public.",
		Severity: SeverityError,
	}
	ContextPropertyIsProtected = Descriptor{
		Code:     "FLSG0006",
		Title:    "Plugin context property is protected",
		Format:   "Context property '%s' is protected. It must be internal or public.",
		Severity: SeverityError,
	}
	LocalizationKeyUnused = Descriptor{
		Code:     "FLSG0007",
		Title:    "Localization key is unused",
		Format:   "Method 'Localize.%s' is never used",
		Severity: SeverityWarning,
	}
	KeyNotInCanonicalDictionary = Descriptor{
		Code:     "FLSG0008",
		Title:    "Localization key is not in the canonical dictionary",
		Format:   "Key '%s' is not defined in the %s dictionary",
		Severity: SeverityWarning,
	}
	InvalidKeyIdentifier = Descriptor{
		Code:     "FLSG0009",
		Title:    "Localization key is not a valid identifier",
		Format:   "Key '%s' is not a valid C# identifier, no accessor is generated for it",
		Severity: SeverityWarning,
	}
)

// Analyzer diagnostics (FLAN) come from the context availability check.
var (
	ContextIsAField = Descriptor{
		Code:     "FLAN0002",
		Title:    "Plugin context is a field",
		Format:   "Plugin context must be a static property instead",
		Severity: SeverityError,
	}
	ContextIsNotStatic = Descriptor{
		Code:     "FLAN0003",
		Title:    "Plugin context is not static",
		Format:   "Plugin context must be a static property",
		Severity: SeverityError,
	}
	ContextAccessIsTooRestrictive = Descriptor{
		Code:     "FLAN0004",
		Title:    "Plugin context property access modifier is too restrictive",
		Format:   "Plugin context property must be at least internal",
		Severity: SeverityError,
	}
	ContextIsNotDeclared = Descriptor{
		Code:     "FLAN0005",
		Title:    "Plugin context is not declared",
		Format:   "Plugin context must be a static property of type `PluginInitContext`",
		Severity: SeverityError,
	}
)
