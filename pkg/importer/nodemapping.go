package importer

// nodeMapping translates the catalog's Finnish service-class names to the
// names used by the local taxonomy tree. Classes not listed here pass through
// under their own name; a class whose resolved name matches no node is logged
// and skipped.
var nodeMapping = map[string]string{
	"Aikuis- ja täydennyskoulutus":                "Aikuiskoulutus",
	"Elinkeinot":                                  "Työ- ja yrityspalvelut",
	"Erikoissairaanhoito":                         "Erikoissairaanhoidon palvelut",
	"Kiinteistöt":                                 "Kaavoitus, kiinteistöt ja rakentaminen",
	"Kirjastot ja tietopalvelut":                  "Aineisto- ja tietopalvelut",
	"Korkeakoulutus":                              "Ammattikorkeakoulut ja yliopistot",
	"Koulu- ja opiskelijaterveydenhuolto":         "Koulu- ja opiskeluterveydenhuolto",
	"Koulutus":                                    "Päivähoito ja koulutus",
	"Kuntoutus":                                   "Kuntoutumispalvelut",
	"Lasten päivähoito":                           "Päivähoito ja esiopetus",
	"Liikunta ja urheilu":                         "Liikunta ja ulkoilu",
	"Neuvolapalvelut":                             "Neuvolat",
	"Oikeusturva":                                 "Oikeudelliset palvelut",
	"Päihde- ja mielenterveyspalvelut":            "Mielenterveys- ja päihdepalvelut",
	"Perusterveydenhuolto":                        "Terveyspalvelut",
	"Rakentaminen":                                "Kaavoitus, kiinteistöt ja rakentaminen",
	"Retkeily":                                    "Leirialueet ja saaret",
	"Rokotukset":                                  "Koulu- ja opiskeluterveydenhuolto",
	"Suun ja hampaiden terveydenhuolto":           "Suun terveydenhuolto",
	"Terveydenhuolto, sairaanhoito ja ravitsemus": "Terveysaseman palvelut",
	"Toimitilat":                                  "Tontit ja toimitilat",
	"Toisen asteen ammatillinen koulutus":         "Ammatillinen koulutus",
	"Työ ja työttömyys":                           "Työllisyyspalvelut",
	"Vammaisten muut kuin asumis- ja kotipalvelut": "Vanhus- ja vammaispalvelut",
	"Vanhusten palvelut":                          "Vanhus- ja vammaispalvelut",
	"Vapaa-ajan palvelut":                         "Vapaa-aika",
}

// mapNodeName resolves a catalog service-class name to a local taxonomy node
// name.
func mapNodeName(name string) string {
	if mapped, ok := nodeMapping[name]; ok {
		return mapped
	}
	return name
}
