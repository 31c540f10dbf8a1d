package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/mcoot/banker/internal/api/response"
	"github.com/mcoot/banker/internal/model"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter writing to w
func NewOutput(format string, w io.Writer) *Output {
	return &Output{format: format, w: w}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		o.printJSON(map[string]string{"message": msg})
	} else {
		_, _ = fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case response.PlayerView:
		o.printPlayer(v)
	case response.PlayersResponse:
		o.printPlayers(v)
	case response.OperationResponse:
		o.printTransaction(v.Transaction)
		o.println("")
		o.printPlayer(v.Player)
	case response.TransactionsResponse:
		o.printTransactions(v.Transactions)
	case response.CurrencyResponse:
		o.printProfile(v.Profile, true)
	case response.CurrenciesResponse:
		for _, p := range v.Currencies {
			o.printProfile(p, p.Code == v.Active)
		}
	case response.HealthResponse:
		o.printf("Status: %s\n", v.Status)
	default:
		o.printJSON(data)
	}
}

func (o *Output) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(o.w, format, args...)
}

func (o *Output) println(s string) {
	_, _ = fmt.Fprintln(o.w, s)
}

func (o *Output) printPlayer(v response.PlayerView) {
	p := v.Player
	if p == nil {
		return
	}
	amount := func(n int64) string { return model.FormatAmount(p.Currency, n) }

	o.printf("Player: %s (%s) [%s]\n", p.Name, p.ID, p.Avatar)
	o.printf("Cash: %s\n", amount(p.Cash))
	o.printf("Account: %s\n", amount(p.Account))
	o.printf("Net worth: %s\n", amount(v.Derived.NetWorth))

	var assets []string
	if p.HasApartment {
		assets = append(assets, "apartment")
	}
	if p.HasCar {
		assets = append(assets, "car")
	}
	if p.HasFurniture {
		assets = append(assets, "furniture")
	}
	if len(assets) > 0 {
		o.printf("Assets: %s\n", strings.Join(assets, ", "))
	}

	if l := p.Loans.Apartment; l.Active {
		o.printf("Apartment loan: %s left (%d%%)\n", amount(l.Remaining), v.Derived.ApartmentLoanProgress)
	}
	if l := p.Loans.Car; l.Active {
		o.printf("Car loan: %s left (%d%%)\n", amount(l.Remaining), v.Derived.CarLoanProgress)
	}

	var held []string
	for _, t := range model.ValidInsuranceTypes() {
		if p.Insurances.Has(t) {
			held = append(held, model.InsuranceDisplayName(t))
		}
	}
	if len(held) > 0 {
		o.printf("Insurance: %s\n", strings.Join(held, ", "))
	}

	o.printf("Wealth goal: %d%%\n", v.Derived.WealthGoalPercent)
	for _, n := range v.Derived.Notifications {
		o.printf("! %s\n", n.Message)
	}
	if v.Derived.Won {
		o.println("WINNER")
	}
}

func (o *Output) printPlayers(r response.PlayersResponse) {
	o.printf("Currency: %s\n", r.Currency)
	if len(r.Players) == 0 {
		o.println("No players")
		return
	}
	for _, v := range r.Players {
		p := v.Player
		won := ""
		if v.Derived.Won {
			won = " WINNER"
		}
		o.printf("  - %s (%s) cash %s, account %s, goal %d%%%s\n",
			p.Name, p.ID,
			model.FormatAmount(p.Currency, p.Cash),
			model.FormatAmount(p.Currency, p.Account),
			v.Derived.WealthGoalPercent, won)
	}
}

func (o *Output) printTransactions(txs []*model.Transaction) {
	if len(txs) == 0 {
		o.println("No transactions")
		return
	}
	for _, tx := range txs {
		o.printTransaction(tx)
	}
}

func (o *Output) printTransaction(tx *model.Transaction) {
	if tx == nil {
		return
	}
	var parts []string
	if tx.CashAmount != 0 {
		parts = append(parts, "cash "+signed(tx.CashAmount))
	}
	if tx.AccountAmount != 0 {
		parts = append(parts, "account "+signed(tx.AccountAmount))
	}
	o.printf("[%s] %s: %s", tx.Timestamp.Format("2006-01-02 15:04:05"), tx.PlayerName, tx.Description)
	if len(parts) > 0 {
		o.printf(" (%s)", strings.Join(parts, ", "))
	}
	o.println("")
}

func (o *Output) printProfile(p model.CurrencyProfile, active bool) {
	marker := ""
	if active {
		marker = " *"
	}
	amount := func(n int64) string { return model.FormatAmount(p.Code, n) }

	o.printf("%s (%s)%s\n", p.Code, p.Symbol, marker)
	o.printf("  Start: cash %s, account %s\n", amount(p.StartCash), amount(p.StartAccount))
	o.printf("  Start field: pass %s, land %s\n", amount(p.StartPassThrough), amount(p.StartLanding))
	o.printf("  Apartment: %s cash, %s financed (%s down, %s monthly)\n",
		amount(p.Apartment.Cash), amount(p.Apartment.Installment), amount(p.Apartment.Down), amount(p.Apartment.Monthly))
	o.printf("  Car: %s cash, %s financed (%s down, %s monthly)\n",
		amount(p.Car.Cash), amount(p.Car.Installment), amount(p.Car.Down), amount(p.Car.Monthly))
}

// signed renders a delta with an explicit sign
func signed(n int64) string {
	if n > 0 {
		return fmt.Sprintf("+%d", n)
	}
	return fmt.Sprintf("%d", n)
}
