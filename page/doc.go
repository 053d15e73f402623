/*
Package page adapts lazily fetched result sets to a page abstraction.

Unpaged models a single page holding the entire result set. It is what a
repository returns when the store hands back a boundary-free cursor:

	p := page.Unpaged[Order](list, total)
	p.Number()           // always 0
	p.IsFirst(), p.IsLast() // always true
	p.NumberOfElements() // total, saturated at math.MaxInt32

Map applies a function to every element eagerly and keeps the total.
Of builds a classic offset/limit page for paged requests.
*/
package page
