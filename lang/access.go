package lang

// AccessFlags is the DVM access-modifier bitmask used on classes,
// fields and methods. The keyword form of each flag is its lowercase
// name with underscores replaced by hyphens.
type AccessFlags uint32

const (
	AccPublic                AccessFlags = 0x1
	AccPrivate               AccessFlags = 0x2
	AccProtected             AccessFlags = 0x4
	AccStatic                AccessFlags = 0x8
	AccFinal                 AccessFlags = 0x10
	AccSynchronized          AccessFlags = 0x20
	AccVolatile              AccessFlags = 0x40
	AccBridge                AccessFlags = 0x80
	AccTransient             AccessFlags = 0x100
	AccVarargs               AccessFlags = 0x200
	AccNative                AccessFlags = 0x400
	AccInterface             AccessFlags = 0x800
	AccAbstract              AccessFlags = 0x1000
	AccStrictfp              AccessFlags = 0x2000
	AccSynthetic             AccessFlags = 0x4000
	AccAnnotation            AccessFlags = 0x8000
	AccEnum                  AccessFlags = 0x10000
	AccConstructor           AccessFlags = 0x20000
	AccDeclaredSynchronized  AccessFlags = 0x40000
	AccSystem                AccessFlags = 0x80000
	AccRuntime               AccessFlags = 0x100000
)

// accessNames is ordered by bit value; Names relies on this order.
var accessNames = []struct {
	flag AccessFlags
	name string
}{
	{AccPublic, "public"},
	{AccPrivate, "private"},
	{AccProtected, "protected"},
	{AccStatic, "static"},
	{AccFinal, "final"},
	{AccSynchronized, "synchronized"},
	{AccVolatile, "volatile"},
	{AccBridge, "bridge"},
	{AccTransient, "transient"},
	{AccVarargs, "varargs"},
	{AccNative, "native"},
	{AccInterface, "interface"},
	{AccAbstract, "abstract"},
	{AccStrictfp, "strictfp"},
	{AccSynthetic, "synthetic"},
	{AccAnnotation, "annotation"},
	{AccEnum, "enum"},
	{AccConstructor, "constructor"},
	{AccDeclaredSynchronized, "declared-synchronized"},
	{AccSystem, "system"},
	{AccRuntime, "runtime"},
}

// ParseAccessFlags ORs the flags named by the given keywords. Unknown
// or empty entries are ignored.
func ParseAccessFlags(keywords []string) AccessFlags {
	var flags AccessFlags
	for _, word := range keywords {
		for _, entry := range accessNames {
			if entry.name == word {
				flags |= entry.flag
				break
			}
		}
	}
	return flags
}

// IsAccessFlag reports whether word is a recognized modifier keyword.
func IsAccessFlag(word string) bool {
	for _, entry := range accessNames {
		if entry.name == word {
			return true
		}
	}
	return false
}

// Names returns the keyword of every modifier whose bit is set.
func (f AccessFlags) Names() []string {
	var names []string
	for _, entry := range accessNames {
		if f&entry.flag != 0 {
			names = append(names, entry.name)
		}
	}
	return names
}

// HasAny reports whether at least one bit of mask is set in f. Exact
// flag-set comparison is plain ==; the two are deliberately different:
// a combined mask HasAny a single contained bit, but does not equal it.
func (f AccessFlags) HasAny(mask AccessFlags) bool {
	return f&mask != 0
}

func (f AccessFlags) IsPublic() bool      { return f&AccPublic != 0 }
func (f AccessFlags) IsPrivate() bool     { return f&AccPrivate != 0 }
func (f AccessFlags) IsProtected() bool   { return f&AccProtected != 0 }
func (f AccessFlags) IsStatic() bool      { return f&AccStatic != 0 }
func (f AccessFlags) IsFinal() bool       { return f&AccFinal != 0 }
func (f AccessFlags) IsInterface() bool   { return f&AccInterface != 0 }
func (f AccessFlags) IsAbstract() bool    { return f&AccAbstract != 0 }
func (f AccessFlags) IsSynthetic() bool   { return f&AccSynthetic != 0 }
func (f AccessFlags) IsAnnotation() bool  { return f&AccAnnotation != 0 }
func (f AccessFlags) IsEnum() bool        { return f&AccEnum != 0 }
func (f AccessFlags) IsConstructor() bool { return f&AccConstructor != 0 }
