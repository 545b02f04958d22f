package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"strings"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/reliant-hq/quote-api/internal/config"
	"github.com/reliant-hq/quote-api/internal/database"
	"github.com/reliant-hq/quote-api/internal/models"
)

// DemoCustomer is a generated West Midlands customer record
type DemoCustomer struct {
	Name     string
	Email    string
	Phone    string
	City     string
	Postcode string
	Segment  string
}

var cities = []string{
	"Birmingham",
	"Wolverhampton",
	"Leicester",
	"Coventry",
	"Walsall",
	"Solihull",
	"Redditch",
	"Dudley",
}

var postcodeAreas = map[string]string{
	"Birmingham":    "B",
	"Wolverhampton": "WV",
	"Leicester":     "LE",
	"Coventry":      "CV",
	"Walsall":       "WS",
	"Solihull":      "B",
	"Redditch":      "B",
	"Dudley":        "DY",
}

var phoneAreaCodes = map[string]string{
	"Birmingham":    "0121",
	"Wolverhampton": "01902",
	"Leicester":     "0116",
	"Coventry":      "024",
	"Walsall":       "01922",
	"Solihull":      "0121",
	"Redditch":      "01527",
	"Dudley":        "01384",
}

var businessTypes = []string{
	"Construction", "Legal", "Medical", "Automotive", "Restaurant",
	"Tech", "Manufacturing", "Logistics", "Dental", "Accounting",
}

var lastNames = []string{
	"Smith", "Jones", "Patel", "Evans", "Khan", "Green", "Taylor",
	"Walker", "Brown", "Wilson", "Davis", "Miller", "Anderson",
	"Clark", "Rodriguez",
}

var maleFirstNames = []string{"David", "Robert", "James", "Peter", "Martin", "Thomas"}
var femaleFirstNames = []string{"Sarah", "Jennifer", "Lisa", "Angela", "Chloe", "Rebecca"}

var segments = []string{"Loyal", "High-Potential", "Dormant"}

func main() {
	// Command line flags
	count := flag.Int("count", 30, "Number of demo customers to generate")
	demo := flag.Bool("demo", false, "Also seed demo users and sample quotes")
	dryRun := flag.Bool("dry-run", false, "Preview customers without writing to database")
	seed := flag.Int64("seed", 0, "Random seed for reproducible output (0 = random)")
	flag.Parse()

	// Load .env
	godotenv.Load()

	// Load config
	cfg := config.Load()

	source := *seed
	if source == 0 {
		source = rand.Int63()
	}
	rng := rand.New(rand.NewSource(source))

	customers := generateCustomers(rng, *count)

	if *dryRun {
		log.Println("DRY RUN - No changes will be made")
		printPreview(customers, 20)
		return
	}

	// Connect to database
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Run migrations so the seeder works against a fresh database
	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Roles and the product catalogue must exist before sample quotes
	if err := database.EnsureSeedData(db, cfg); err != nil {
		log.Fatalf("Failed to ensure seed data: %v", err)
	}

	inserted, err := importCustomers(db, customers)
	if err != nil {
		log.Fatalf("Failed to import customers: %v", err)
	}
	log.Printf("Import complete: %d demo customers inserted", inserted)

	if *demo {
		if err := seedDemoUsers(db); err != nil {
			log.Fatalf("Failed to seed demo users: %v", err)
		}
		if err := seedSampleQuotes(db); err != nil {
			log.Fatalf("Failed to seed sample quotes: %v", err)
		}
	}
}

// generateCustomers builds a mix of trade accounts and private households
// around the West Midlands
func generateCustomers(rng *rand.Rand, count int) []DemoCustomer {
	customers := make([]DemoCustomer, 0, count)

	for i := 0; i < count; i++ {
		city := cities[rng.Intn(len(cities))]
		segment := segments[rng.Intn(len(segments))]

		if rng.Intn(2) == 0 {
			businessType := businessTypes[rng.Intn(len(businessTypes))]
			lastName := lastNames[rng.Intn(len(lastNames))]

			customers = append(customers, DemoCustomer{
				Name:     fmt.Sprintf("%s %s", lastName, businessType),
				Email:    fmt.Sprintf("info@%s%s.co.uk", strings.ToLower(lastName), strings.ToLower(businessType)),
				Phone:    generatePhoneNumber(rng, city),
				City:     city,
				Postcode: generatePostcode(rng, city),
				Segment:  segment,
			})
			continue
		}

		title := "Mr"
		firstName := maleFirstNames[rng.Intn(len(maleFirstNames))]
		if rng.Intn(2) == 0 {
			title = "Ms"
			firstName = femaleFirstNames[rng.Intn(len(femaleFirstNames))]
		}
		lastName := lastNames[rng.Intn(len(lastNames))]

		customers = append(customers, DemoCustomer{
			Name:     fmt.Sprintf("%s %s %s", title, firstName, lastName),
			Email:    fmt.Sprintf("%s.%s@example.com", strings.ToLower(firstName), strings.ToLower(lastName)),
			Phone:    generatePhoneNumber(rng, city),
			City:     city,
			Postcode: generatePostcode(rng, city),
			Segment:  segment,
		})
	}

	return customers
}

func generatePostcode(rng *rand.Rand, city string) string {
	area := postcodeAreas[city]
	number := rng.Intn(98) + 1
	letter := rune('A' + rng.Intn(26))
	final := rng.Intn(8) + 1
	return fmt.Sprintf("%s%d %d%c%c", area, number, final, letter, letter)
}

func generatePhoneNumber(rng *rand.Rand, city string) string {
	areaCode := phoneAreaCodes[city]
	return fmt.Sprintf("%s %d %d", areaCode, rng.Intn(900)+100, rng.Intn(9000)+1000)
}

// importCustomers inserts the generated customers in a single transaction,
// skipping any whose email already exists
func importCustomers(db *database.DB, customers []DemoCustomer) (int, error) {
	ctx := context.Background()

	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	inserted := 0
	for _, c := range customers {
		var exists bool
		err := tx.QueryRow(ctx,
			"SELECT EXISTS(SELECT 1 FROM customers WHERE email = $1)", c.Email,
		).Scan(&exists)
		if err != nil {
			return inserted, fmt.Errorf("failed to check existing customer %s: %w", c.Email, err)
		}
		if exists {
			continue
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO customers (name, email, phone, city, postcode, segment)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, c.Name, c.Email, c.Phone, c.City, c.Postcode, c.Segment)
		if err != nil {
			return inserted, fmt.Errorf("failed to insert customer %s: %w", c.Name, err)
		}
		inserted++
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return inserted, nil
}

// seedDemoUsers creates a known set of sales and manager accounts, all with
// the password "Passw0rd!". Accounts that already exist are left alone.
func seedDemoUsers(db *database.DB) error {
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("Passw0rd!"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash demo password: %w", err)
	}

	users := []struct {
		email    string
		fullName string
		role     string
	}{
		{"manager@demo.local", "Sarah Johnson", models.RoleManager},
		{"sales@demo.local", "Mike Chen", models.RoleSales},
		{"alex.williams@demo.local", "Alex Williams", models.RoleSales},
		{"jessica.martinez@demo.local", "Jessica Martinez", models.RoleSales},
		{"david.smith@demo.local", "David Smith", models.RoleManager},
		{"emily.brown@demo.local", "Emily Brown", models.RoleManager},
	}

	created := 0
	for _, u := range users {
		var exists bool
		err := db.Pool.QueryRow(ctx,
			"SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)", u.email,
		).Scan(&exists)
		if err != nil {
			return fmt.Errorf("failed to check user %s: %w", u.email, err)
		}
		if exists {
			continue
		}

		var userID int
		err = db.Pool.QueryRow(ctx, `
			INSERT INTO users (email, password_hash, full_name, is_active)
			VALUES ($1, $2, $3, true)
			RETURNING id
		`, u.email, string(hash), u.fullName).Scan(&userID)
		if err != nil {
			return fmt.Errorf("failed to create user %s: %w", u.email, err)
		}

		_, err = db.Pool.Exec(ctx, `
			INSERT INTO user_roles (user_id, role_id)
			SELECT $1, id FROM roles WHERE name = $2
		`, userID, u.role)
		if err != nil {
			return fmt.Errorf("failed to assign role to %s: %w", u.email, err)
		}
		created++
	}

	log.Printf("Demo users: %d created", created)
	return nil
}

// seedSampleQuotes inserts two example quotes (a draft and a sent one) for
// the first two customers, skipping entirely if any quote already exists
func seedSampleQuotes(db *database.DB) error {
	ctx := context.Background()

	var quoteCount int
	if err := db.Pool.QueryRow(ctx, "SELECT COUNT(*) FROM quotes").Scan(&quoteCount); err != nil {
		return fmt.Errorf("failed to count quotes: %w", err)
	}
	if quoteCount > 0 {
		log.Println("Quotes already present, skipping sample quotes")
		return nil
	}

	var salesID int
	err := db.Pool.QueryRow(ctx,
		"SELECT id FROM users WHERE email = 'sales@demo.local'",
	).Scan(&salesID)
	if err != nil {
		return fmt.Errorf("failed to find demo sales user: %w", err)
	}

	var custIDs []int
	rows, err := db.Pool.Query(ctx, "SELECT id FROM customers ORDER BY id LIMIT 2")
	if err != nil {
		return fmt.Errorf("failed to list customers: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return err
		}
		custIDs = append(custIDs, id)
	}
	if len(custIDs) < 2 {
		return fmt.Errorf("need at least 2 customers for sample quotes, have %d", len(custIDs))
	}

	var winID, doorID int
	err = db.Pool.QueryRow(ctx,
		"SELECT id FROM products WHERE product_type = 'window' AND name LIKE '%Casement%'",
	).Scan(&winID)
	if err != nil {
		return fmt.Errorf("failed to find casement window product: %w", err)
	}
	err = db.Pool.QueryRow(ctx,
		"SELECT id FROM products WHERE product_type = 'door' AND name LIKE '%Composite%'",
	).Scan(&doorID)
	if err != nil {
		return fmt.Errorf("failed to find composite door product: %w", err)
	}

	standard := "Standard"
	premium := "Premium"
	complexInstall := "Complex"

	draft := &models.Quote{
		CustomerID:      custIDs[0],
		Status:          models.QuoteStatusDraft,
		CreatedByUserID: salesID,
		Items: []models.QuoteItem{
			{
				ProductID: winID, WidthMm: 1200, HeightMm: 900,
				Material: "uPVC", Glazing: "double",
				ColorTier: &standard, HardwareTier: &standard, InstallComplexity: &standard,
				Qty:       2,
				UnitPrice: decimal.RequireFromString("280.00"),
				LineTotal: decimal.RequireFromString("560.00"),
			},
		},
	}

	sent := &models.Quote{
		CustomerID:      custIDs[1],
		Status:          models.QuoteStatusSent,
		CreatedByUserID: salesID,
		Items: []models.QuoteItem{
			{
				ProductID: doorID, WidthMm: 900, HeightMm: 2100,
				Material: "Composite", Glazing: "double",
				ColorTier: &premium, HardwareTier: &premium, InstallComplexity: &complexInstall,
				Qty:       1,
				UnitPrice: decimal.RequireFromString("950.00"),
				LineTotal: decimal.RequireFromString("950.00"),
			},
			{
				ProductID: winID, WidthMm: 1000, HeightMm: 1000,
				Material: "uPVC", Glazing: "triple",
				ColorTier: &premium, HardwareTier: &standard, InstallComplexity: &standard,
				Qty:       1,
				UnitPrice: decimal.RequireFromString("320.00"),
				LineTotal: decimal.RequireFromString("320.00"),
			},
		},
	}

	for _, q := range []*models.Quote{draft, sent} {
		subtotal := decimal.Zero
		for _, item := range q.Items {
			subtotal = subtotal.Add(item.LineTotal)
		}
		vat := subtotal.Mul(decimal.RequireFromString("0.20")).Round(2)
		q.Subtotal = subtotal
		q.Vat = vat
		q.Total = subtotal.Add(vat)
		notes := fmt.Sprintf("Auto-seeded quote for %d item(s). Total £%s inc VAT.",
			len(q.Items), q.Total.StringFixed(2))
		q.Notes = &notes

		if _, err := db.CreateQuote(ctx, q); err != nil {
			return fmt.Errorf("failed to create sample quote: %w", err)
		}
	}

	log.Println("Sample quotes: 2 created")
	return nil
}

// printPreview shows a sample of the customers to be inserted
func printPreview(customers []DemoCustomer, limit int) {
	fmt.Println("\n=== Preview of demo customers ===")
	fmt.Printf("Total: %d customers\n\n", len(customers))

	cityCount := make(map[string]int)
	for _, c := range customers {
		cityCount[c.City]++
	}

	fmt.Println("Customers per city:")
	for _, city := range cities {
		if cityCount[city] > 0 {
			fmt.Printf("  %s: %d\n", city, cityCount[city])
		}
	}

	fmt.Printf("\nSample customers (first %d):\n", limit)
	for i, c := range customers {
		if i >= limit {
			break
		}
		fmt.Printf("  %s <%s> - %s, %s (%s)\n", c.Name, c.Email, c.City, c.Postcode, c.Phone)
	}
}
