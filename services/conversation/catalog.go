package conversation

// ServiceOption is one entry of the clinic's service menu.
type ServiceOption struct {
	Keyword     string
	Digit       string
	Description string
	Price       string
}

// Catalog is the clinic's service menu in presentation order.
var Catalog = []ServiceOption{
	{Keyword: "urgencia", Digit: "1", Description: "Urgencia Médica", Price: "$60"},
	{Keyword: "consulta", Digit: "2", Description: "Consulta Odontológica", Price: "$25"},
	{Keyword: "limpieza", Digit: "3", Description: "Limpieza Dental", Price: "$15"},
	{Keyword: "ortodoncia", Digit: "4", Description: "Evaluación de Ortodoncia", Price: "$80"},
}

// FindService resolves a menu digit or service keyword to its option.
func FindService(input string) (ServiceOption, bool) {
	for _, opt := range Catalog {
		if input == opt.Digit || input == opt.Keyword {
			return opt, true
		}
	}
	return ServiceOption{}, false
}

// FindServiceByKeyword resolves only service keywords, for messages that
// reach the bot outside a menu context.
func FindServiceByKeyword(input string) (ServiceOption, bool) {
	for _, opt := range Catalog {
		if input == opt.Keyword {
			return opt, true
		}
	}
	return ServiceOption{}, false
}
