// Package faformat formatea fechas (calendario jalali) y cantidades para la interfaz en persa.
package faformat

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Tehran zona horaria de referencia para la fecha jalali de los movimientos.
var Tehran = loadTehran()

func loadTehran() *time.Location {
	loc, err := time.LoadLocation("Asia/Tehran")
	if err != nil {
		// Sin tzdata: Irán usa +03:30 fijo desde 2022.
		return time.FixedZone("IRST", 3*3600+30*60)
	}
	return loc
}

var printer = message.NewPrinter(language.Persian)

var persianDigits = strings.NewReplacer(
	"0", "۰", "1", "۱", "2", "۲", "3", "۳", "4", "۴",
	"5", "۵", "6", "۶", "7", "۷", "8", "۸", "9", "۹",
)

var latinDigits = strings.NewReplacer(
	"۰", "0", "۱", "1", "۲", "2", "۳", "3", "۴", "4",
	"۵", "5", "۶", "6", "۷", "7", "۸", "8", "۹", "9",
	"٠", "0", "١", "1", "٢", "2", "٣", "3", "٤", "4",
	"٥", "5", "٦", "6", "٧", "7", "٨", "8", "٩", "9",
)

// ToPersianDigits reemplaza los dígitos ASCII por dígitos persas.
func ToPersianDigits(s string) string { return persianDigits.Replace(s) }

// ToLatinDigits reemplaza dígitos persas y arábigos por ASCII.
func ToLatinDigits(s string) string { return latinDigits.Replace(s) }

// JalaliDate fecha del calendario persa.
type JalaliDate struct {
	Year, Month, Day int
}

// String formato y/m/d sin ceros a la izquierda, con dígitos ASCII.
func (d JalaliDate) String() string {
	return fmt.Sprintf("%d/%d/%d", d.Year, d.Month, d.Day)
}

// ToJalali convierte la fecha civil de t (en su propia zona) al calendario jalali.
func ToJalali(t time.Time) JalaliDate {
	gy, gmMonth, gd := t.Date()
	gm := int(gmMonth)

	gdm := [...]int{0, 31, 59, 90, 120, 151, 181, 212, 243, 273, 304, 334}
	gy2 := gy
	if gm > 2 {
		gy2 = gy + 1
	}
	days := 355666 + 365*gy + (gy2+3)/4 - (gy2+99)/100 + (gy2+399)/400 + gd + gdm[gm-1]
	jy := -1595 + 33*(days/12053)
	days %= 12053
	jy += 4 * (days / 1461)
	days %= 1461
	if days > 365 {
		jy += (days - 1) / 365
		days = (days - 1) % 365
	}
	var jm, jd int
	if days < 186 {
		jm = 1 + days/31
		jd = 1 + days%31
	} else {
		jm = 7 + (days-186)/30
		jd = 1 + (days-186)%30
	}
	return JalaliDate{Year: jy, Month: jm, Day: jd}
}

// Date fecha jalali de t en hora de Teherán con dígitos persas, p. ej. "۱۴۰۵/۷/۲۵".
func Date(t time.Time) string {
	return ToPersianDigits(ToJalali(t.In(Tehran)).String())
}

// Number entero con separadores de miles y dígitos persas.
func Number(n int64) string {
	return printer.Sprint(number.Decimal(n))
}

// Rial importe en riales, p. ej. "۱٬۲۵۰٬۰۰۰ ریال".
func Rial(n int64) string {
	return Number(n) + " ریال"
}
