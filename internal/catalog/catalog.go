// Package catalog holds the static product catalog: every PDF the bot
// sells, keyed by product id. Loaded once at startup and read-only after
// that, so it is safe to share between the bot and the webhook handler.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
)

// Delimiter joins chat id and product id inside an external reference.
// Product ids containing it would parse back to the wrong pair, so the
// loader rejects them.
const Delimiter = ":"

type Product struct {
	ID              string
	Title           string
	ResourceLocator string
	Price           decimal.Decimal
}

type Catalog struct {
	products map[string]Product
	order    []string
}

type productJSON struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url"`
	Price string `json:"price"`
}

// Load reads the catalog from path, or returns the built-in default
// catalog when path is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return defaultCatalog()
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	var items []productJSON
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	products := make([]Product, 0, len(items))
	for _, it := range items {
		price, err := decimal.NewFromString(it.Price)
		if err != nil {
			return nil, fmt.Errorf("product %q: bad price %q: %w", it.ID, it.Price, err)
		}
		products = append(products, Product{
			ID:              it.ID,
			Title:           it.Title,
			ResourceLocator: it.URL,
			Price:           price,
		})
	}
	return New(products)
}

func New(products []Product) (*Catalog, error) {
	c := &Catalog{products: make(map[string]Product, len(products))}
	for _, p := range products {
		if strings.TrimSpace(p.ID) == "" {
			return nil, fmt.Errorf("product with empty id")
		}
		if strings.Contains(p.ID, Delimiter) {
			return nil, fmt.Errorf("product id %q contains reference delimiter %q", p.ID, Delimiter)
		}
		if strings.TrimSpace(p.ResourceLocator) == "" {
			return nil, fmt.Errorf("product %q has no download URL", p.ID)
		}
		if _, dup := c.products[p.ID]; dup {
			return nil, fmt.Errorf("duplicate product id %q", p.ID)
		}
		c.products[p.ID] = p
		c.order = append(c.order, p.ID)
	}
	if len(c.products) == 0 {
		return nil, fmt.Errorf("catalog is empty")
	}
	return c, nil
}

func (c *Catalog) Get(id string) (Product, bool) {
	p, ok := c.products[id]
	return p, ok
}

// List returns products in declaration order, for menu rendering.
func (c *Catalog) List() []Product {
	out := make([]Product, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.products[id])
	}
	return out
}

func (c *Catalog) Len() int { return len(c.products) }

func defaultCatalog() (*Catalog, error) {
	price := decimal.NewFromFloat(10.00)
	return New([]Product{
		{ID: "pdf1", Title: "Planilha de Orçamento Familiar", ResourceLocator: "https://drive.google.com/file/d/1-PwvnRSp73SpNYTqDg5TuJc8M5957CVF/view?usp=sharing", Price: price},
		{ID: "pdf2", Title: "Guia de Compras Conscientes", ResourceLocator: "https://drive.google.com/file/d/1-JzKTnHRg1Pj4x1BYH6I6GtHkMPEChcp/view?usp=sharing", Price: price},
		{ID: "pdf3", Title: "Dicas para Economizar Energia em Casa", ResourceLocator: "https://drive.google.com/file/d/1-dwYZDUWx4VoasF5bzKITCj55Uu-s4sb/view?usp=sharing", Price: price},
		{ID: "pdf4", Title: "Receitas Econômicas e Saudáveis", ResourceLocator: "https://drive.google.com/file/d/1-ismWr0Qk2QJYl3TLzo7POi1lrq_1jac/view?usp=sharing", Price: price},
		{ID: "pdf5", Title: "Guia para Sair das Dívidas", ResourceLocator: "https://drive.google.com/file/d/1-nkMMXQXAXqH8CMLu2Kj-_pLXbhDTSo_/view?usp=sharing", Price: price},
		{ID: "pdf6", Title: "Planejador de Metas Financeiras", ResourceLocator: "https://drive.google.com/file/d/1-LBDKvaWpJUWjPguWZReHiIvwtyi6yWN/view?usp=sharing", Price: price},
	})
}
