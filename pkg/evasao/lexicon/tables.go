package lexicon

import "sync"

// Table names used in collision errors and logs.
const (
	NeighborhoodTable = "neighborhoods"
	CityTable         = "cities"
)

var neighborhoodCorrections = []struct {
	canonical string
	variants  []string
}{
	{"abolição", []string{"vila abolicao"}},
	{"alto da boa vista", []string{"alto"}},
	{"andaraí", []string{"andarai"}},
	{"barra da tijuca", []string{"barra"}},
	{"bancários", []string{"bancarios"}},
	{"bonsucesso", []string{"bonsuceso"}},
	{"brás de pina", []string{"bras de pina", "braz de pina"}},
	{"cachambi", []string{"cachambí"}},
	{"coelho neto", []string{"coelho"}},
	{"colégio", []string{"colegio"}},
	{"cosme velho", []string{"cosme velh"}},
	{"freguesia", []string{
		"freguesia (jacarepagua)", "freguesia-jacarepagua", "freguesia/jacarepagua",
		"freguesia  jacarepagua", "freguesia jacarepagua",
	}},
	{"gardênia azul", []string{"gardenia azul"}},
	{"grajaú", []string{"graiau", "grajau"}},
	{"higienópolis", []string{"higianopolis", "higienopolis"}},
	{"humaitá", []string{"humaita", "huimata", "huimaita"}},
	{"inhaúma", []string{"inhaaoma", "inhauma"}},
	{"irajá", []string{"iraja!", "irajã", "IrajÃ", "iraja"}},
	{"itapeba", []string{"itopeba"}},
	{"jacaré", []string{"jacare"}},
	{"jardim boa esperança", []string{"jadim boa esperanca", "jardim boa esperanca"}},
	{"jardim botânico", []string{"setor habitacional jardim botanico (lago sul)", "jardim botanico"}},
	{"jardim gramacho", []string{"gramacho"}},
	{"jardim guanabara", []string{"jardim guanabara/ilha do governador", "jardim guanabara / ilha do governador"}},
	{"jardim olavo bilac", []string{"jardim olavo"}},
	{"laranjeiras", []string{"laranjeira", "laranjeirass"}},
	{"marechal hermes", []string{"marcahl hermes"}},
	{"maracanã", []string{"maracanaps", "maracana"}},
	{"pechincha", []string{"pechincha / jacarepagua"}},
	{"praça seca", []string{"praassa seca", "praÃ§a Seca", "praca seca"}},
	{"praça da bandeira", []string{
		"praassa da bandeira", "pca da bandeira", "praca da bandeira",
		"praÃ§a da bandeira", "Pça da Bandeira",
	}},
	{"quintino bocaiuva", []string{"quintino"}},
	{"recreio dos bandeirantes", []string{"recreio"}},
	{"santa teresa", []string{"santa tereza"}},
	{"santa teresinha", []string{"santa terezinha"}},
	{"sauaçu", []string{"sauassu "}},
	{"são conrado", []string{"sao corrado", "sao conrado"}},
	{"são francisco xavier", []string{"sapso francisco xavier", "SÃ£o Francisco Xavier", "sao francisco xavier"}},
	{"jardim sulacap", []string{"sulacap"}},
	{"tanque", []string{"tanque-jacarepagua", "tanque - jacarepaguá", "tanque - jacarepagua"}},
	{"taquara", []string{"taquara-jacarepagua"}},
	{"tijuca", []string{"TIJUCA"}},
	{"vila brasil", []string{"vila brasil (manilha)"}},
	{"vila inhomirim", []string{"vila carvalho (vila inhomirim)", "parque maita (vila inhomirim)"}},
	{"vila isabel", []string{"vila isabe", "vila isabell", "vila izabel"}},
	{"vila nova", []string{"vila nova (surui)"}},
	{"cocotá", []string{"cocota"}},
	{"parada 40", nil},
	{"jacarepaguá", []string{"jacarepagua", "jarcarepagua"}},
}

var cityCorrections = []struct {
	canonical string
	variants  []string
}{
	{"rio de janeiro", []string{
		"rj", "rio", "rio d janeiro", "rio de janero", "rj capital",
		"rio-de-janeiro", "r.j.", "rj.", "cidade do rio de janeiro",
	}},
	{"niterói", []string{"niteroi", "nit", "niteroi-rj"}},
	{"maricá", []string{"marica"}},
	{"vitória", []string{"vitoria"}},
	{"belo horizonte", []string{"belo horizonte mg", "bh"}},
	{"brasília", []string{"brasilia", "df"}},
	{"duque de caxias", []string{"d. de caxias", "duque caxias", "caxias"}},
	{"nova iguaçu", []string{"nova iguacu", "n. iguaçu", "n iguacu"}},
	{"são gonçalo", []string{"sao goncalo"}},
}

// Neighborhoods returns the built-in neighborhood correction table. The
// table is built once and shared; callers must Clone before adding groups.
var Neighborhoods = sync.OnceValue(func() *Lexicon {
	return mustBuild(NeighborhoodTable, neighborhoodCorrections)
})

// Cities returns the built-in city correction table. The table is built once
// and shared; callers must Clone before adding groups.
var Cities = sync.OnceValue(func() *Lexicon {
	return mustBuild(CityTable, cityCorrections)
})

func mustBuild(name string, groups []struct {
	canonical string
	variants  []string
}) *Lexicon {
	lex := New(name)
	for _, g := range groups {
		if err := lex.AddGroup(g.canonical, g.variants); err != nil {
			panic(err)
		}
	}
	return lex
}
