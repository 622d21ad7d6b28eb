package codes

// Czech grammatical gender of a noun. Adjective forms and the free-entry
// prefix must agree with it.
type gender int

const (
	masculine gender = iota
	neuter
	feminine
)

// adjective carries the three inflected forms. Invariant adjectives repeat
// the same form for every gender.
type adjective struct {
	forms [3]string
}

func invariant(form string) adjective {
	return adjective{forms: [3]string{form, form, form}}
}

func variant(m, n, f string) adjective {
	return adjective{forms: [3]string{m, n, f}}
}

func (a adjective) form(g gender) string {
	return a.forms[g]
}

type noun struct {
	word   string
	gender gender
}

var adjectives = []adjective{
	invariant("absurdni"),
	variant("antifasisticky", "antifasisticke", "antifasisticka"),
	variant("anarchisticky", "anarchisticke", "anarchisticka"),
	variant("bajecny", "bajecne", "bajecna"),
	variant("bezelstny", "bezelstne", "bezelstna"),
	variant("bojovny", "bojovne", "bojovna"),
	invariant("binarni"),
	variant("chapavy", "chapave", "chapava"),
	variant("ctyrvalcovy", "ctyrvalcove", "ctyrvalcova"),
	variant("dadaisticky", "dadaisticke", "dadaisticka"),
	invariant("dekadentni"),
	invariant("divergentni"),
	variant("divotvorny", "divotvorne", "divotvorna"),
	invariant("ekvipotencialni"),
	invariant("emotivni"),
	invariant("exportni"),
	invariant("famozni"),
	variant("fialovy", "fialove", "fialova"),
	variant("ferovy", "ferove", "ferova"),
	variant("feministicky", "feministicke", "feministicka"),
	variant("hydraulicky", "hydraulicke", "hydraulicka"),
	invariant("investigativni"),
	invariant("interstelarni"),
	variant("jehlicnaty", "jehlicnate", "jehlicnata"),
	invariant("kapesni"),
	variant("modrovlasy", "modrovlase", "modrovlasa"),
	invariant("nevokalni"),
	invariant("neurodivergentni"),
	invariant("spektralni"),
	variant("senzomotoricky", "senzomotoricke", "senzomotoricka"),
	variant("troufaly", "troufale", "troufala"),
	invariant("queer"),
	variant("vydatny", "vydatne", "vydatna"),
	variant("vychytraly", "vychytrale", "vychytrala"),
}

var nouns = []noun{
	{"agama", feminine},
	{"alpaka", feminine},
	{"anomalocaris", masculine},
	{"axolotl", masculine},
	{"avokado", neuter},
	{"bodlin", masculine},
	{"delfin", masculine},
	{"jezura", feminine},
	{"kapybara", feminine},
	{"kakadu", masculine},
	{"kosatka", feminine},
	{"kote", neuter},
	{"krakatice", feminine},
	{"lemur", masculine},
	{"lenochod", masculine},
	{"liska", feminine},
	{"lodenka", feminine},
	{"luskoun", masculine},
	{"manul", masculine},
	{"mlok", masculine},
	{"myval", masculine},
	{"okapi", feminine},
	{"plamenak", masculine},
	{"ptakopysk", masculine},
	{"pterodaktyl", masculine},
	{"rak", masculine},
	{"racek", masculine},
	{"robopes", masculine},
	{"rypous", masculine},
	{"sakal", masculine},
	{"sele", neuter},
	{"stegosaurus", masculine},
	{"surikata", feminine},
	{"tapir", masculine},
	{"tarbik", masculine},
	{"vacice", feminine},
	{"vakovlk", masculine},
	{"velociraptor", masculine},
	{"vombat", masculine},
	{"vydra", feminine},
	{"zirafa", feminine},
}

// freePrefixes are the gender-agreed markers for free (non-paid) codes.
var freePrefixes = [3]string{"volny-", "volne-", "volna-"}
