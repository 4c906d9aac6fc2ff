package geo

import (
	"fmt"
	"sync"

	"github.com/cognicore/evasao/pkg/evasao/internalerr"
	"github.com/cognicore/evasao/pkg/evasao/textnorm"
)

// Zone labels written to the geographic_zone column.
const (
	ZoneNorth            = "North Zone"
	ZoneWest             = "West Zone"
	ZoneSouth            = "South Zone"
	ZoneDowntown         = "Downtown"
	ZoneBaixada          = "Baixada Fluminense"
	ZoneNiteroiSG        = "Niterói / São Gonçalo"
	ZoneMountain         = "Mountain Region"
	ZoneLakes            = "Lakes Region"
	ZoneCampos           = "Campos Region"
	ZoneVoltaRedonda     = "Volta Redonda Region"
	ZoneGreenCoast       = "Green Coast"
	ZoneOtherState       = "Other State"
	ZoneUnidentifiedHome = "Unidentified (home state)"
	ZoneUnidentified     = "Unidentified"
)

// MatchKind says which column a zone's members are compared against.
type MatchKind int

const (
	ByNeighborhood MatchKind = iota
	ByCity
)

// Zone is a named group of neighborhoods or cities. SeatOnly members are
// neighborhood names common to many municipalities; they match only when the
// row's city is Seat or unknown.
type Zone struct {
	Name     string
	Kind     MatchKind
	Members  []string
	Seat     string
	SeatOnly []string
}

type seated struct {
	zone string
	seat string
}

// ZoneIndex answers zone lookups for folded neighborhood and city names.
// It is immutable after construction.
type ZoneIndex struct {
	zones          []Zone
	byNeighborhood map[string]string
	bySeat         map[string]seated
	byCity         map[string]string
}

// NewZoneIndex builds an index. Within one MatchKind every folded member must
// belong to a single zone; an overlap fails with ErrZoneOverlap.
func NewZoneIndex(zones []Zone) (*ZoneIndex, error) {
	idx := &ZoneIndex{
		zones:          zones,
		byNeighborhood: make(map[string]string),
		bySeat:         make(map[string]seated),
		byCity:         make(map[string]string),
	}
	for _, z := range zones {
		target := idx.byNeighborhood
		if z.Kind == ByCity {
			target = idx.byCity
		}
		for _, m := range z.Members {
			f := textnorm.Fold(m)
			if owner, ok := target[f]; ok && owner != z.Name {
				return nil, fmt.Errorf("%q in %q and %q: %w", f, owner, z.Name, internalerr.ErrZoneOverlap)
			}
			target[f] = z.Name
		}
		if len(z.SeatOnly) > 0 && (z.Kind != ByNeighborhood || z.Seat == "") {
			return nil, fmt.Errorf("zone %q: seat-only members need a neighborhood zone with a seat: %w", z.Name, internalerr.ErrInvalidConfig)
		}
		for _, m := range z.SeatOnly {
			f := textnorm.Fold(m)
			owner, ok := idx.byNeighborhood[f]
			if !ok {
				if s, seen := idx.bySeat[f]; seen {
					owner, ok = s.zone, true
				}
			}
			if ok && owner != z.Name {
				return nil, fmt.Errorf("%q in %q and %q: %w", f, owner, z.Name, internalerr.ErrZoneOverlap)
			}
			idx.bySeat[f] = seated{zone: z.Name, seat: textnorm.Fold(z.Seat)}
		}
	}
	for f, s := range idx.bySeat {
		if owner, ok := idx.byNeighborhood[f]; ok {
			return nil, fmt.Errorf("%q in %q and %q: %w", f, owner, s.zone, internalerr.ErrZoneOverlap)
		}
	}
	return idx, nil
}

// ZoneForNeighborhood looks up a folded neighborhood name, ignoring
// seat-only members.
func (z *ZoneIndex) ZoneForNeighborhood(folded string) (string, bool) {
	name, ok := z.byNeighborhood[folded]
	return name, ok
}

// ZoneForPlace looks up a folded neighborhood, honoring seat-only members:
// those match only when city is empty, unknown or the zone's seat.
func (z *ZoneIndex) ZoneForPlace(neighborhood, city string) (string, bool) {
	if name, ok := z.byNeighborhood[neighborhood]; ok {
		return name, true
	}
	s, ok := z.bySeat[neighborhood]
	if !ok {
		return "", false
	}
	if city == "" || city == unknownFolded || city == s.seat {
		return s.zone, true
	}
	return "", false
}

// ZoneForCity looks up a folded city name.
func (z *ZoneIndex) ZoneForCity(folded string) (string, bool) {
	name, ok := z.byCity[folded]
	return name, ok
}

// Zones returns the zone definitions in declaration order.
func (z *ZoneIndex) Zones() []Zone {
	return append([]Zone(nil), z.zones...)
}

// DefaultZones returns the Rio de Janeiro zone index, built once.
var DefaultZones = sync.OnceValue(func() *ZoneIndex {
	idx, err := NewZoneIndex(rioZones)
	if err != nil {
		panic(err)
	}
	return idx
})

// Centro is seat-only since every municipality has one.
// Estácio and Catumbi are listed under Downtown only; Itaguaí under the Green
// Coast only; Cantagalo (the municipality) under the Mountain Region only.
var rioZones = []Zone{
	{Name: ZoneNorth, Kind: ByNeighborhood, Members: []string{
		"Abolição", "Acari", "Água Santa", "Alto da Boa Vista", "Anchieta", "Andaraí", "Bancários",
		"Barros Filho", "Benfica", "Bento Ribeiro", "Bonsucesso", "Brás de Pina", "Cachambi", "Cacuia",
		"Caju", "Campinho", "Cascadura", "Cavalcanti", "Cidade Universitária", "Cocotá",
		"Coelho Neto", "Colégio", "Complexo do Alemão", "Cordovil", "Costa Barros", "Del Castilho",
		"Encantado", "Engenheiro Leal", "Engenho da Rainha", "Engenho de Dentro", "Engenho Novo",
		"Ilha do Governador", "Galeão", "Grajaú", "Guadalupe", "Higienópolis", "Honório Gurgel", "Inhaúma",
		"Irajá", "Jacaré", "Jacarezinho", "Jardim América", "Jardim Carioca", "Jardim Guanabara",
		"Lins de Vasconcelos", "Madureira", "Manguinhos", "Maracanã", "Maré", "Marechal Hermes",
		"Mangueira", "Maria da Graça", "Méier", "Moneró", "Olaria", "Oswaldo Cruz", "Parada de Lucas",
		"Parque Anchieta", "Parque Colúmbia", "Pavuna", "Penha", "Penha Circular", "Piedade", "Pilares",
		"Pitangueiras", "Portuguesa", "Praça da Bandeira", "Praia da Bandeira", "Quintino Bocaiúva", "Ramos",
		"Riachuelo", "Ribeiro", "Ricardo de Albuquerque", "Rocha", "Rocha Miranda", "Rocha Neto", "Sampaio",
		"Rio Comprido", "Vasco da Gama", "São Cristóvão", "São Francisco Xavier", "Tauá", "Tijuca",
		"Todos os Santos", "Tomás Coelho", "Turiaçu", "Vaz Lobo", "Vicente de Carvalho", "Vigário Geral",
		"Vila Isabel", "Vila Kosmos", "Vila da Penha", "Vista Alegre", "Zumbi", "Freguesia (Ilha)",
	}},
	{Name: ZoneWest, Kind: ByNeighborhood, Members: []string{
		"Anil", "Bangu", "Barra da Tijuca", "Barra de Guaratiba", "Camorim", "Campo dos Afonsos",
		"Campo Grande", "Cidade de Deus", "Cosmos", "Curicica", "Deodoro", "Freguesia",
		"Gardênia Azul", "Gericinó", "Grumari", "Guaratiba", "Ilha de Guaratiba", "Inhoaíba", "Itanhangá",
		"Jabour", "Jacarepaguá", "Jardim Sulacap", "Joá", "Magalhães Bastos", "Paciência", "Padre Miguel",
		"Pechincha", "Pedra de Guaratiba", "Praça Seca", "Realengo", "Recreio dos Bandeirantes", "Santa Cruz",
		"Santíssimo", "Senador Camará", "Senador Vasconcelos", "Sepetiba", "Tanque", "Taquara",
		"Vargem Grande", "Vargem Pequena", "Vila Kennedy", "Vila Militar", "Vila Valqueire", "Rio das Pedras",
	}},
	{Name: ZoneSouth, Kind: ByNeighborhood, Members: []string{
		"Ipanema", "Botafogo", "Catete", "Copacabana", "Lagoa", "Flamengo", "Gávea", "Humaitá",
		"Jardim Botânico", "Laranjeiras", "Leme", "Urca", "Vidigal", "Cosme Velho", "São Conrado",
		"Rocinha", "Leblon", "Santo Amaro",
	}},
	{Name: ZoneBaixada, Kind: ByCity, Members: []string{
		"Nova Iguaçu", "Duque de Caxias", "Belford Roxo", "São João de Meriti", "Nilópolis",
		"Mesquita", "Magé", "Queimados", "Japeri", "Guapimirim", "Paracambi", "Seropédica", "Tanguá",
	}},
	{Name: ZoneDowntown, Kind: ByNeighborhood, Seat: "Rio de Janeiro", SeatOnly: []string{"Centro"}, Members: []string{
		"Gamboa", "Centro do Rio", "Lapa", "Saúde", "Cidade Nova", "Santa Teresa", "Estácio",
		"Catumbi", "Santo Cristo", "Paquetá", "Glória", "Praça da República", "Praça Mauá",
		"Bairro de Fátima",
	}},
	{Name: ZoneNiteroiSG, Kind: ByCity, Members: []string{
		"Niterói", "Icaraí", "Santa Rosa", "Fonseca", "Barreto", "Ingá", "São Francisco",
		"Piratininga", "Itaipu", "Várzea das Moças", "Cubango", "Vital Brazil",
		"São Domingos", "Baldeador", "Caramujo", "Engenhoca", "Santana", "Pé Pequeno",
		"Largo da Batalha", "Matapaca", "Ponta d'Areia", "São Lourenço", "Sapê",
		"Itacoatiara", "Camboinhas", "Maravista", "Maria Paula", "Santo Antônio",
		"São Gonçalo", "Alcântara", "Mutondo", "Neves", "Porto da Pedra", "Trindade", "Zé Garoto",
		"Boaçu", "Itaboraí", "Manilha",
	}},
	{Name: ZoneMountain, Kind: ByCity, Members: []string{
		"Bom Jardim", "Cantagalo", "Carmo", "Cordeiro", "Duas Barras", "Macuco", "Nova Friburgo",
		"Petrópolis", "São José do Vale do Rio Preto", "São Sebastião do Alto", "Santa Maria Madalena",
		"Sumidouro", "Teresópolis", "Trajano de Morais", "Areal",
		"Comendador Levy Gasparian", "Paraíba do Sul", "Sapucaia", "Três Rios",
	}},
	{Name: ZoneLakes, Kind: ByCity, Members: []string{
		"Cabo Frio", "Arraial do Cabo", "Araruama", "Saquarema", "Iguaba Grande",
		"São Pedro da Aldeia", "Maricá", "Rio das Ostras", "Armação dos Búzios", "Casimiro de Abreu",
		"Conceição de Macabu", "Quissamã", "Macaé", "Carapebus",
	}},
	{Name: ZoneCampos, Kind: ByCity, Members: []string{
		"Campos dos Goytacazes", "Cardoso Moreira", "São Fidélis", "São Francisco de Itabapoana",
		"São João da Barra", "Bom Jesus do Itabapoana", "Itaperuna", "Laje do Muriaé",
		"Natividade", "Porciúncula", "São José de Ubá", "Varre-Sai", "Cambuci", "Italva", "Itaocara",
		"Miracema", "Santo Antônio de Pádua",
	}},
	{Name: ZoneVoltaRedonda, Kind: ByCity, Members: []string{
		"Valença", "Vassouras", "Miguel Pereira", "Paty do Alferes", "Rio das Flores", "Barra do Piraí",
		"Piraí", "Pinheiral", "Volta Redonda", "Barra Mansa", "Resende", "Itatiaia", "Quatis",
		"Porto Real", "Rio Claro",
	}},
	{Name: ZoneGreenCoast, Kind: ByCity, Members: []string{
		"Angra dos Reis", "Paraty", "Mangaratiba", "Itaguaí",
	}},
}
