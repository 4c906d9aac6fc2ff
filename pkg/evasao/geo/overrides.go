package geo

import "github.com/cognicore/evasao/pkg/evasao/textnorm"

// Placement is a curated neighborhood/city/state triple.
type Placement struct {
	Neighborhood string
	City         string
	State        string
}

// Overrides maps a folded neighborhood name to its verified placement.
type Overrides map[string]Placement

// Lookup folds neighborhood and returns its curated placement.
func (o Overrides) Lookup(neighborhood any) (Placement, bool) {
	p, ok := o[textnorm.Fold(neighborhood)]
	return p, ok
}

// DefaultOverrides returns the hand-verified fixes for neighborhoods that the
// source spreadsheets attach to the wrong municipality or state.
func DefaultOverrides() Overrides {
	out := make(Overrides, len(manualPlacements))
	for k, v := range manualPlacements {
		out[textnorm.Fold(k)] = v
	}
	return out
}

var manualPlacements = map[string]Placement{
	"aldeia da prata (manilha)":      {"aldeia da prata", "itaborai", "rj"},
	"aldeia de prata":                {"aldeia da prata", "itaborai", "rj"},
	"centro/nova iguacu":             {"centro", "nova iguacu", "rj"},
	"colubande":                      {"colubande", "sao goncalo", "rj"},
	"cosmorama":                      {"cosmorama", "mesquita", "rj"},
	"da luz":                         {"da luz", "nova iguacu", "rj"},
	"edson passos":                   {"edson passos", "mesquita", "rj"},
	"farrula":                        {"farrula", "sao joao de meriti", "rj"},
	"ibes":                           {"ibes", "vila velha", "es"},
	"itaipu":                         {"itaipu", "niteroi", "rj"},
	"itapeba":                        {"itapeba", "marica", "rj"},
	"parada 40":                      {"parada 40", "niteroi", "rj"},
	"jardim gramacho":                {"jardim gramacho", "duque de caxias", "rj"},
	"ouro verde":                     {"ouro verde", "nova iguacu", "rj"},
	"mutua":                          {"mutua", "sao goncalo", "rj"},
	"coelho da rocha":                {"coelho da rocha", "são joão de meriti", "rj"},
	"jardim meriti":                  {"jardim meriti", "são joão de meriti", "rj"},
	"quitandinha":                    {"quitandinha", "petrópolis", "rj"},
	"vila nova":                      {"vila nova", "nova iguacu", "rj"},
	"olavo bilac":                    {"jardim olavo bilac", "são joão de meriti", "rj"},
	"jardim olavo bilac":             {"jardim olavo bilac", "são joão de meriti", "rj"},
	"glaucia":                        {"jardim glaucia", "belford roxo", "rj"},
	"morin":                          {"morin", "petrópolis", "rj"},
	"centenario":                     {"vila centenário", "duque de caxias", "rj"},
	"lins":                           {"lins de vasconcelos", "rio de janeiro", "rj"},
	"laranjal":                       {"laranjal", "são gonçalo", "rj"},
	"jardim tropical":                {"jardim tropical", "nova iguaçu", "rj"},
	"jardim jurema":                  {"jardim jurema", "são joão de meriti", "rj"},
	"monte castelo":                  {"monte castelo", "nova iguaçu", "rj"},
	"icarai":                         {"icarai", "niterói", "rj"},
	"santa rosa":                     {"santa rosa", "niterói", "rj"},
	"inga":                           {"inga", "niterói", "rj"},
	"fonseca":                        {"fonseca", "niterói", "rj"},
	"barreto":                        {"barreto", "niterói", "rj"},
	"piratininga":                    {"piratininga", "niterói", "rj"},
	"vila inhomirim":                 {"vila inhomirim", "magé", "rj"},
	"vila centenario":                {"vila centenario", "duque de caxias", "rj"},
	"jardim primavera":               {"jardim primavera", "duque de caxias", "rj"},
	"varzea":                         {"várzea", "teresópolis", "rj"},
	"vila brasil":                    {"vila brasil", "itaboraí", "rj"},
	"vilar dos teles":                {"vilar dos teles", "são joão de meriti", "rj"},
	"jardim anhanga":                 {"jardim anhanga", "duque de caxias", "rj"},
	"santa teresinha":                {"santa teresinha", "mesquita", "rj"},
	"prata":                          {"prata", "teresópolis", "rj"},
	"queimados":                      {"queimados", "queimados", "rj"},
	"raul veiga":                     {"raul veiga", "são gonçalo", "rj"},
	"riachao":                        {"riachão", "nova iguaçu", "rj"},
	"rio do ouro":                    {"rio do ouro", "niterói", "rj"},
	"santa catarina":                 {"santa catarina", "são gonçalo", "rj"},
	"sao francisco":                  {"são francisco", "niterói", "rj"},
	"bairro das gracas":              {"bairro das graças", "belford roxo", "rj"},
	"petropolis":                     {"petrópolis", "petrópolis", "rj"},
	"piabeta":                        {"piabetá", "magé", "rj"},
	"santa cruz da serra":            {"santa cruz da serra", "duque de caxias", "rj"},
	"ponto chic":                     {"ponto chic", "nova iguaçu", "rj"},
	"sao goncalo":                    {"são gonçalo", "são gonçalo", "rj"},
	"engenho do mato":                {"engenho do mato", "niterói", "rj"},
	"engenho do porto":               {"engenho do porto", "duque de caxias", "rj"},
	"fatima":                         {"bairro de fátima", "rio de janeiro", "rj"},
	"niteroi":                        {"niterói", "niterói", "rj"},
	"vila sao sebastiao":             {"vila são sebastião", "duque de caxias", "rj"},
	"nossa senhora das gracas":       {"copacabana", "rio de janeiro", "rj"},
	"nova america":                   {"nova américa", "nova iguaçu", "rj"},
	"maria paula":                    {"maria paula", "são gonçalo", "rj"},
	"parque sao vicente":             {"parque são vicente", "belford roxo", "rj"},
	"jardim campomar":                {"jardim campomar", "rio das ostras", "rj"},
	"lindo parque":                   {"lindo parque", "são gonçalo", "rj"},
	"prado":                          {"prado", "nova friburgo", "rj"},
	"vila rosario":                   {"vila rosário", "duque de caxias", "rj"},
	"vila leopoldina":                {"vila leopoldina", "duque de caxias", "rj"},
	"vila de cava":                   {"vila de cava", "nova iguaçu", "rj"},
	"sete pontes":                    {"sete pontes", "são gonçalo", "rj"},
	"santa luzia":                    {"santa luzia", "são gonçalo", "rj"},
	"santa eugenia":                  {"santa eugenia", "nova iguaçu", "rj"},
	"banco de areia":                 {"banco de areia", "mesquita", "rj"},
	"brasilandia":                    {"brasilândia", "são gonçalo", "rj"},
	"carlos sampaio":                 {"carlos sampaio", "nova iguaçu", "rj"},
	"cruzeiro do sul":                {"cruzeiro do sul", "mesquita", "rj"},
	"ferradura":                      {"ferradura", "armação dos búzios", "rj"},
	"nova cidade":                    {"nova cidade", "nilópolis", "rj"},
	"parque lafaiete":                {"parque lafaiete", "duque de caxias", "rj"},
	"parque vila nova":               {"parque vila nova", "duque de caxias", "rj"},
	"pauline":                        {"vila pauline", "belford roxo", "rj"},
	"praia brava":                    {"praia brava", "angra dos reis", "rj"},
	"vila sao luis":                  {"vila são luís", "duque de caxias", "rj"},
	"vila itamarati":                 {"vila itamarati", "duque de caxias", "rj"},
	"vila guanabara":                 {"vila guanabara", "duque de caxias", "rj"},
	"praca da ponte":                 {"praça da ponte", "miguel pereira", "rj"},
	"mutando":                        {"mutondo", "são gonçalo", "rj"},
	"freguesia (ilha do governador)": {"freguesia (ilha)", "rio de janeiro", "rj"},
	"jardim excelsior":               {"jardim excelsior", "cabo frio", "rj"},
	"caxias":                         {"centro", "duque de caxias", "rj"},
	"jardim caicara":                 {"jardim caiçara", "cabo frio", "rj"},
	"jardim rosario":                 {"jardim rosário", "duque de caxias", "rj"},
	"jardim boa esperanca":           {"jardim boa esperança", "bom jardim", "rj"},
	"parque ipiranga":                {"parque ipiranga", "resende", "rj"},
	"vila oito de maio":              {"vila 8 de maio", "duque de caxias", "rj"},
	"mirandopolis":                   {"mirandópolis", "quatis", "rj"},
	"plante cafe":                    {"plante café", "miguel pereira", "rj"},
	"parque vitoria":                 {"parque vitória", "duque de caxias", "rj"},
	"santo amaro":                    {"santo amaro", "são paulo", "sp"},
	"santo anta'nio":                 {"santo antônio", "são paulo", "sp"},
	"ufrrj":                          {"ufrrj", "seropédica", "rj"},
	"village sao roque":              {"village são roque", "miguel pereira", "rj"},
	"rio de janeiro":                 {"praça seca", "rio de janeiro", "rj"},
	"piquet":                         {"centro", "maricá", "rj"},
}
