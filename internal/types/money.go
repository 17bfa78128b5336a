// README: Money and distance formatting shared by pricing and estimate display.
package types

import "fmt"

// Currency is the only currency the tariff catalog is priced in.
const Currency = "EUR"

// FormatEuro renders an amount with two decimals and the euro suffix, e.g. "44.00 €".
// Rounding happens here and nowhere else.
func FormatEuro(amount float64) string {
	return fmt.Sprintf("%.2f €", amount)
}

// FormatKm renders a distance with two decimals, e.g. "12.34 km".
func FormatKm(km float64) string {
	return fmt.Sprintf("%.2f km", km)
}
