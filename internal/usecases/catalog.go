package usecases

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"papelariabot/internal/entities"
)

// Catalog is the immutable service catalog, loaded once at startup.
type Catalog struct {
	options []entities.ServiceOption
	byCode  map[int]entities.ServiceOption
}

// NewCatalog builds a catalog from options. Codes must be unique and
// contiguous starting at 1.
func NewCatalog(options []entities.ServiceOption) (*Catalog, error) {
	if len(options) == 0 {
		return nil, fmt.Errorf("catalog is empty")
	}
	byCode := make(map[int]entities.ServiceOption, len(options))
	for _, opt := range options {
		if opt.Label == "" {
			return nil, fmt.Errorf("service %d has no label", opt.Code)
		}
		if opt.LeadTime <= 0 {
			return nil, fmt.Errorf("service %d (%s) has non-positive lead time", opt.Code, opt.Label)
		}
		if _, dup := byCode[opt.Code]; dup {
			return nil, fmt.Errorf("duplicate service code %d", opt.Code)
		}
		byCode[opt.Code] = opt
	}
	for code := 1; code <= len(options); code++ {
		if _, ok := byCode[code]; !ok {
			return nil, fmt.Errorf("service codes must run 1..%d, missing %d", len(options), code)
		}
	}
	sorted := make([]entities.ServiceOption, len(options))
	copy(sorted, options)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Code < sorted[j].Code })
	return &Catalog{options: sorted, byCode: byCode}, nil
}

// LoadCatalogCSV reads the catalog from a CSV file with columns
// code,label,price,lead_minutes. A missing file falls back to the built-in
// shop catalog; a present but invalid file is a startup error.
func LoadCatalogCSV(path string, defaultLead time.Duration) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewCatalog(defaultOptions(defaultLead))
		}
		return nil, fmt.Errorf("open catalog %s: %w", path, err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}

	var options []entities.ServiceOption
	for i, row := range rows {
		if i == 0 && strings.EqualFold(strings.TrimSpace(row[0]), "code") {
			continue // header
		}
		if len(row) < 3 {
			return nil, fmt.Errorf("catalog %s line %d: want code,label,price[,lead_minutes]", path, i+1)
		}
		code, err := strconv.Atoi(strings.TrimSpace(row[0]))
		if err != nil {
			return nil, fmt.Errorf("catalog %s line %d: bad code %q", path, i+1, row[0])
		}
		lead := defaultLead
		if len(row) >= 4 && strings.TrimSpace(row[3]) != "" {
			minutes, err := strconv.Atoi(strings.TrimSpace(row[3]))
			if err != nil || minutes <= 0 {
				return nil, fmt.Errorf("catalog %s line %d: bad lead_minutes %q", path, i+1, row[3])
			}
			lead = time.Duration(minutes) * time.Minute
		}
		options = append(options, entities.ServiceOption{
			Code:             code,
			Label:            strings.TrimSpace(row[1]),
			PriceDescription: strings.TrimSpace(row[2]),
			LeadTime:         lead,
		})
	}
	return NewCatalog(options)
}

// Size returns the number of services, which is also the highest valid code.
func (c *Catalog) Size() int { return len(c.options) }

// Lookup returns the option for code, if it exists.
func (c *Catalog) Lookup(code int) (entities.ServiceOption, bool) {
	opt, ok := c.byCode[code]
	return opt, ok
}

// Options returns the catalog in code order.
func (c *Catalog) Options() []entities.ServiceOption { return c.options }

// MenuMessage renders the greeting menu with every service and its price.
func (c *Catalog) MenuMessage(name string) string {
	var sb strings.Builder
	if name != "" {
		fmt.Fprintf(&sb, "Olá, *%s*! Como posso ajudar você hoje?\n\n", name)
	} else {
		sb.WriteString("Olá! Como posso ajudar você hoje?\n\n")
	}
	sb.WriteString("Escolha uma das opções abaixo:\n")
	for _, opt := range c.options {
		fmt.Fprintf(&sb, "%d - %s (%s)\n", opt.Code, opt.Label, opt.PriceDescription)
	}
	sb.WriteString("\nResponda com o *número* da opção desejada.")
	return sb.String()
}

// SelectionMessage renders the price and turnaround copy for one service.
func SelectionMessage(opt entities.ServiceOption) string {
	minutes := int(opt.LeadTime / time.Minute)
	return fmt.Sprintf(
		"Você selecionou *%s*. O valor é *%s*.\n\nSeu pedido fica pronto em aproximadamente *%d minutos*. Avisaremos por aqui assim que estiver disponível para retirada. 😉",
		opt.Label, opt.PriceDescription, minutes)
}

// defaultOptions is the Papelaria BH price list.
func defaultOptions(defaultLead time.Duration) []entities.ServiceOption {
	mk := func(code int, label, price string, lead time.Duration) entities.ServiceOption {
		if lead <= 0 {
			lead = defaultLead
		}
		return entities.ServiceOption{Code: code, Label: label, PriceDescription: price, LeadTime: lead}
	}
	return []entities.ServiceOption{
		mk(1, "Impressão", "R$ 2,00 por página", 15*time.Minute),
		mk(2, "Xerox", "R$ 0,50 por documento", 10*time.Minute),
		mk(3, "Revelação de Foto", "R$ 5,00", 0),
		mk(4, "Foto 3x4", "R$ 5,00 por 6 unidades", 20*time.Minute),
		mk(5, "Plastificação A4", "R$ 7,00", 0),
		mk(6, "Plastificação SUS", "R$ 5,00", 0),
		mk(7, "Impressão em papel cartão", "R$ 3,00", 15*time.Minute),
		mk(8, "Papel fotográfico adesivo", "R$ 5,00", 0),
		mk(9, "Encadernação 50 folhas", "R$ 12,00", 40*time.Minute),
		mk(10, "Outros materiais e variedades", "consulte valores", 0),
	}
}
