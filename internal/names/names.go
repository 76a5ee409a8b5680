// Package names holds the fixed identifiers shared by the dictionary parser,
// the C# scanners and the code generator.
package names

const (
	// DefaultNamespace is used when no assembly name can be determined.
	DefaultNamespace = "Flow.Launcher"

	// ClassName is the generated accessor class and the call-site root.
	ClassName = "Localize"

	PluginInterfaceName   = "IPluginI18n"
	PluginContextTypeName = "PluginInitContext"

	// SystemPrefixURI tags string-resource elements.
	SystemPrefixURI = "clr-namespace:System;assembly=mscorlib"
	// XamlPrefixURI tags the key attribute.
	XamlPrefixURI = "http://schemas.microsoft.com/winfx/2006/xaml"
	XamlTag       = "String"
	KeyAttribute  = "Key"

	PublicAPIClassName            = "PublicApi"
	PublicAPIPrivatePropertyName  = "instance"
	PublicAPIInternalPropertyName = "Instance"

	// ErrorSentinel is returned by accessors that have no runtime context.
	ErrorSentinel = "LOCALIZATION_ERROR"
)

// CoreAssemblies are the assemblies that own the translation manager.
var CoreAssemblies = []string{"Flow.Launcher", "Flow.Launcher.Core"}
