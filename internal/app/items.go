package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/closetwatch/internal/config"
	"github.com/blackwell-systems/closetwatch/internal/output"
	"github.com/blackwell-systems/closetwatch/internal/store"
	"github.com/blackwell-systems/closetwatch/internal/wardrobe"
)

var (
	itemName     string
	itemCategory string
	itemColor    string
	itemBrand    string
	itemTags     []string
	itemPrice    float64
	itemCurrency string
	itemWears    int
	itemAdded    string
	itemCatalog  bool
	wearTimes    int
)

var itemsCmd = &cobra.Command{
	Use:   "items",
	Short: "Add, list, wear, search and remove wardrobe items",
	Long: `Manage the garments in the local wardrobe database. Items always live in
SQLite; use 'closetwatch export-graph' to mirror them into Neo4j.`,
}

var itemsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add an item",
	Example: `  closetwatch items add --name "Wool Overcoat" --category outerwear --price 240 --tags winter,work
  closetwatch items add --name "Linen Shirt" --category tops --added 2026-04-02`,
	Args: cobra.NoArgs,
	RunE: runItemsAdd,
}

var itemsEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Change fields of an item (wear count may only go up)",
	Args:  cobra.ExactArgs(1),
	RunE:  runItemsEdit,
}

var itemsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List items in the order they were added",
	Args:  cobra.NoArgs,
	RunE:  runItemsList,
}

var itemsRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete an item and its wear history",
	Args:  cobra.ExactArgs(1),
	RunE:  runItemsRm,
}

var itemsWearCmd = &cobra.Command{
	Use:   "wear <id>",
	Short: "Record that an item was worn",
	Long: `Record a wear. Every call counts, even several on the same day. The
wear is stamped with --at when given, otherwise now.`,
	Args: cobra.ExactArgs(1),
	RunE: runItemsWear,
}

var itemsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one item and its wear history",
	Args:  cobra.ExactArgs(1),
	RunE:  runItemsShow,
}

var itemsSearchCmd = &cobra.Command{
	Use:   "search <term>",
	Short: "Find items by name, category or tag",
	Args:  cobra.ExactArgs(1),
	RunE:  runItemsSearch,
}

func init() {
	for _, c := range []*cobra.Command{itemsAddCmd, itemsEditCmd} {
		c.Flags().StringVar(&itemName, "name", "", "Item name")
		c.Flags().StringVar(&itemCategory, "category", "", "Category: tops, bottoms, dresses, outerwear, shoes, accessories")
		c.Flags().StringVar(&itemColor, "color", "", "Color")
		c.Flags().StringVar(&itemBrand, "brand", "", "Brand")
		c.Flags().StringSliceVar(&itemTags, "tags", nil, "Comma-separated tags")
		c.Flags().Float64Var(&itemPrice, "price", 0, "Purchase price")
		c.Flags().StringVar(&itemCurrency, "currency", "", "Purchase currency code (default: configured currency)")
		c.Flags().IntVar(&itemWears, "wears", 0, "Wear count")
		c.Flags().StringVar(&itemAdded, "added", "", "When the item was added (RFC 3339 or YYYY-MM-DD, default now)")
	}
	itemsAddCmd.Flags().BoolVar(&itemCatalog, "catalog", false, "Mark the item as imported from the catalog")
	_ = itemsAddCmd.MarkFlagRequired("name")

	itemsListCmd.Flags().StringVar(&itemCategory, "category", "", "Only list this category")
	itemsWearCmd.Flags().IntVar(&wearTimes, "times", 1, "Number of wears to record")

	itemsCmd.AddCommand(itemsAddCmd, itemsEditCmd, itemsListCmd, itemsRmCmd, itemsWearCmd, itemsShowCmd, itemsSearchCmd)
	rootCmd.AddCommand(itemsCmd)
}

// openItemStore loads config and opens the SQLite store for item commands.
func openItemStore() (*config.Config, *store.DB, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	if cfg.Source != config.SourceSQLite {
		verbosef("items are written to %s; run export-graph to update %s", cfg.DBPath, cfg.Source)
	}
	db, err := openStore(cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, db, nil
}

func runItemsAdd(cmd *cobra.Command, args []string) error {
	cfg, db, err := openItemStore()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	it := wardrobe.Item{
		UserID:           cfg.User,
		Name:             strings.TrimSpace(itemName),
		Color:            itemColor,
		Brand:            itemBrand,
		Tags:             itemTags,
		PurchaseCurrency: itemCurrency,
		WearCount:        itemWears,
		SourceType:       wardrobe.SourceUserUploaded,
		AddedAt:          time.Now().In(loc),
	}
	if itemCatalog {
		it.SourceType = wardrobe.SourceCatalog
	}
	if itemCategory != "" {
		c, ok := wardrobe.ParseCategory(itemCategory)
		if !ok {
			return fmt.Errorf("unknown category %q", itemCategory)
		}
		it.Category = c
	}
	if cmd.Flags().Changed("price") {
		p := itemPrice
		it.PurchasePrice = &p
		if it.PurchaseCurrency == "" {
			it.PurchaseCurrency = cfg.Currency
		}
	}
	if itemAdded != "" {
		if it.AddedAt, err = parseAt(itemAdded, loc); err != nil {
			return err
		}
	}

	added, err := db.AddItem(cmd.Context(), it)
	if err != nil {
		return fmt.Errorf("adding item: %w", err)
	}
	if flagJSON {
		return writeJSON(added)
	}
	fmt.Printf(" %s Added %s (%s)\n", output.StyleSuccess.Render("✓"), added.Name, added.ID)
	return nil
}

func runItemsEdit(cmd *cobra.Command, args []string) error {
	cfg, db, err := openItemStore()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	it, err := db.GetItem(cmd.Context(), cfg.User, args[0])
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("name") {
		it.Name = strings.TrimSpace(itemName)
	}
	if flags.Changed("category") {
		c, ok := wardrobe.ParseCategory(itemCategory)
		if !ok {
			return fmt.Errorf("unknown category %q", itemCategory)
		}
		it.Category = c
	}
	if flags.Changed("color") {
		it.Color = itemColor
	}
	if flags.Changed("brand") {
		it.Brand = itemBrand
	}
	if flags.Changed("tags") {
		it.Tags = itemTags
	}
	if flags.Changed("price") {
		p := itemPrice
		it.PurchasePrice = &p
		if it.PurchaseCurrency == "" {
			it.PurchaseCurrency = cfg.Currency
		}
	}
	if flags.Changed("currency") {
		it.PurchaseCurrency = itemCurrency
	}
	if flags.Changed("wears") {
		it.WearCount = itemWears
	}
	if flags.Changed("added") {
		loc, err := cfg.Location()
		if err != nil {
			return err
		}
		if it.AddedAt, err = parseAt(itemAdded, loc); err != nil {
			return err
		}
	}

	if err := db.UpdateItem(cmd.Context(), it); err != nil {
		if errors.Is(err, store.ErrWearCountDecrease) {
			return fmt.Errorf("%w (use 'items rm' and re-add to reset an item)", err)
		}
		return err
	}
	if flagJSON {
		return writeJSON(it)
	}
	fmt.Printf(" %s Updated %s\n", output.StyleSuccess.Render("✓"), it.Name)
	return nil
}

func runItemsList(cmd *cobra.Command, args []string) error {
	cfg, db, err := openItemStore()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	var items []wardrobe.Item
	if itemCategory != "" {
		c, ok := wardrobe.ParseCategory(itemCategory)
		if !ok {
			return fmt.Errorf("unknown category %q", itemCategory)
		}
		items, err = db.ItemsByCategory(cmd.Context(), cfg.User, c)
	} else {
		items, err = db.ListItems(cmd.Context(), cfg.User)
	}
	if err != nil {
		return fmt.Errorf("listing items: %w", err)
	}
	return renderItems(items, cfg.Currency)
}

func runItemsRm(cmd *cobra.Command, args []string) error {
	cfg, db, err := openItemStore()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	if err := db.DeleteItem(cmd.Context(), cfg.User, args[0]); err != nil {
		return err
	}
	if flagJSON {
		return writeJSON(map[string]string{"deleted": args[0]})
	}
	fmt.Printf(" %s Removed %s\n", output.StyleSuccess.Render("✓"), args[0])
	return nil
}

func runItemsWear(cmd *cobra.Command, args []string) error {
	cfg, db, err := openItemStore()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	if wearTimes < 1 {
		return fmt.Errorf("--times must be at least 1, got %d", wearTimes)
	}
	at, err := evalTime(cfg)
	if err != nil {
		return err
	}

	it, err := db.RecordWears(cmd.Context(), cfg.User, args[0], at, wearTimes)
	if err != nil {
		return err
	}
	if flagJSON {
		return writeJSON(it)
	}
	fmt.Printf(" %s %s worn %d time(s) in total\n", output.StyleSuccess.Render("✓"), it.Name, it.WearCount)
	return nil
}

// itemDetail is the JSON shape of 'items show'.
type itemDetail struct {
	Item  wardrobe.Item     `json:"item"`
	Wears []store.WearEvent `json:"wear_events"`
}

func runItemsShow(cmd *cobra.Command, args []string) error {
	cfg, db, err := openItemStore()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	it, err := db.GetItem(cmd.Context(), cfg.User, args[0])
	if err != nil {
		return err
	}
	events, err := db.WearEvents(cmd.Context(), cfg.User, it.ID)
	if err != nil {
		return fmt.Errorf("loading wear history: %w", err)
	}
	if flagJSON {
		if events == nil {
			events = []store.WearEvent{}
		}
		return writeJSON(itemDetail{Item: it, Wears: events})
	}
	renderItemDetail(it, events, cfg.Currency)
	return nil
}

func renderItemDetail(it wardrobe.Item, events []store.WearEvent, currency string) {
	fmt.Println(output.Section(it.Name))
	fmt.Println(output.KeyValue("ID", it.ID))
	fmt.Println(output.KeyValue("Category", it.Category.Label()))
	if it.Color != "" {
		fmt.Println(output.KeyValue("Color", it.Color))
	}
	if it.Brand != "" {
		fmt.Println(output.KeyValue("Brand", it.Brand))
	}
	if len(it.Tags) > 0 {
		fmt.Println(output.KeyValue("Tags", strings.Join(it.Tags, ", ")))
	}
	price := output.Missing
	if it.HasPrice() {
		cur := it.PurchaseCurrency
		if cur == "" {
			cur = currency
		}
		price = output.Money(it.Price(), cur)
	}
	fmt.Println(output.KeyValue("Price", price))
	fmt.Println(output.KeyValue("Added", it.AddedAt.Local().Format("2006-01-02")))
	fmt.Println(output.KeyValue("Wears", fmt.Sprintf("%d", it.WearCount)))

	fmt.Println(output.Section("Wear history"))
	if len(events) == 0 {
		fmt.Println(" No recorded wears.")
		return
	}
	tbl := output.NewTable("#", "Worn at")
	for i, e := range events {
		tbl.AddRow(fmt.Sprintf("%d", i+1), e.WornAt.Local().Format("2006-01-02 15:04"))
	}
	tbl.Print()
	if n := it.WearCount - len(events); n > 0 {
		fmt.Printf("\n %d wear(s) were set directly and have no timestamp.\n", n)
	}
}

func runItemsSearch(cmd *cobra.Command, args []string) error {
	cfg, db, err := openItemStore()
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	items, err := db.SearchItems(cmd.Context(), cfg.User, args[0])
	if err != nil {
		return fmt.Errorf("searching items: %w", err)
	}
	return renderItems(items, cfg.Currency)
}

func renderItems(items []wardrobe.Item, currency string) error {
	if flagJSON {
		if items == nil {
			items = []wardrobe.Item{}
		}
		return writeJSON(items)
	}
	if len(items) == 0 {
		fmt.Println(" No items.")
		return nil
	}

	tbl := output.NewTable("ID", "Name", "Category", "Wears", "Price", "Last worn")
	for _, it := range items {
		price := output.Missing
		if it.PurchasePrice != nil && wardrobe.FiniteAmount(*it.PurchasePrice) {
			cur := it.PurchaseCurrency
			if cur == "" {
				cur = currency
			}
			price = output.Money(*it.PurchasePrice, cur)
		}
		last := output.Missing
		if it.LastWornAt != nil {
			last = it.LastWornAt.Local().Format("2006-01-02")
		}
		tbl.AddRow(it.ID, it.Name, it.Category.Label(), fmt.Sprintf("%d", it.WearCount), price, last)
	}
	tbl.Print()
	fmt.Printf("\n %d item(s)\n", tbl.Len())
	return nil
}
