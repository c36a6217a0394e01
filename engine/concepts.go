package engine

// =============================================================================
// CONCEPT CATALOG - Earning/deduction codes and their statutory flags
// =============================================================================

// ConceptKind classifies a concept as an earning or a deduction.
type ConceptKind string

const (
	KindEarning   ConceptKind = "earning"
	KindDeduction ConceptKind = "deduction"
)

// Concept declares a payroll line code, its kind, and whether amounts under
// it are subject to worker social insurance and to income tax.
type Concept struct {
	Code      string
	Name      string
	Kind      ConceptKind
	Insurable bool
	Taxable   bool
}

// Statutory and customary concept codes. Base pay and overtime are always
// insurable and taxable; statutory bonuses are neither.
const (
	ConceptBasePay     = "BASE"
	ConceptOvertime25  = "OT25"
	ConceptOvertime50  = "OT50"
	ConceptOvertime100 = "OT100"
	ConceptCommission  = "COMMISSION"
	ConceptBonus       = "BONUS"
	ConceptThirteenth  = "THIRTEENTH"
	ConceptFourteenth  = "FOURTEENTH"
	ConceptReserveFund = "RESERVE"
	ConceptVacationPay = "VACATION"
	ConceptLoan        = "LOAN"
	ConceptAdvance     = "ADVANCE"
	ConceptFine        = "FINE"
	ConceptUniform     = "UNIFORM"
)

// Catalog is the read-only registry of concepts the engine evaluates
// against. Strict controls the handling of unknown codes:
//
//   - lenient (default): an unknown code is treated as an earning subject
//     to both social insurance and income tax, and a warning is recorded
//     on the calculation result. Deductions must be registered explicitly.
//   - strict: an unknown code fails the calculation with
//     ErrInconsistentConcept.
type Catalog struct {
	Strict   bool
	concepts map[string]Concept
}

// NewCatalog builds an empty catalog.
func NewCatalog(strict bool) *Catalog {
	return &Catalog{Strict: strict, concepts: make(map[string]Concept)}
}

// DefaultCatalog registers the statutory concepts.
func DefaultCatalog() *Catalog {
	c := NewCatalog(false)
	for _, concept := range []Concept{
		{ConceptBasePay, "Base pay", KindEarning, true, true},
		{ConceptOvertime25, "Overtime 25%", KindEarning, true, true},
		{ConceptOvertime50, "Overtime 50%", KindEarning, true, true},
		{ConceptOvertime100, "Overtime 100%", KindEarning, true, true},
		{ConceptCommission, "Commission", KindEarning, true, true},
		{ConceptBonus, "Discretionary bonus", KindEarning, true, true},
		{ConceptThirteenth, "Thirteenth-month bonus", KindEarning, false, false},
		{ConceptFourteenth, "Fourteenth-month bonus", KindEarning, false, false},
		{ConceptReserveFund, "Reserve fund payout", KindEarning, false, false},
		{ConceptVacationPay, "Vacation payout", KindEarning, true, false},
		{ConceptLoan, "Loan repayment", KindDeduction, false, false},
		{ConceptAdvance, "Salary advance", KindDeduction, false, false},
		{ConceptFine, "Disciplinary fine", KindDeduction, false, false},
		{ConceptUniform, "Uniform discount", KindDeduction, false, false},
	} {
		c.concepts[concept.Code] = concept
	}
	return c
}

// Register adds or replaces a concept. Adding a new concept requires only
// registration here; calculators pick it up through Resolve.
func (c *Catalog) Register(concept Concept) error {
	if concept.Code == "" {
		return &InputError{Field: "concept.code", Reason: "must not be empty"}
	}
	if concept.Kind != KindEarning && concept.Kind != KindDeduction {
		return &InputError{Field: "concept.kind", Reason: "must be earning or deduction"}
	}
	c.concepts[concept.Code] = concept
	return nil
}

// Lookup returns the registered concept for a code.
func (c *Catalog) Lookup(code string) (Concept, bool) {
	concept, ok := c.concepts[code]
	return concept, ok
}

// Resolve returns the concept for a code, applying the unknown-code policy.
// The returned warning is non-empty when a lenient fallback was used.
func (c *Catalog) Resolve(code string) (Concept, string, error) {
	if concept, ok := c.concepts[code]; ok {
		return concept, "", nil
	}
	if c.Strict {
		return Concept{}, "", &ConceptError{Code: code}
	}
	// Lenient fallback: unknown codes are earnings subject to both.
	// A deduction must always be registered explicitly.
	fallback := Concept{Code: code, Name: code, Kind: KindEarning, Insurable: true, Taxable: true}
	return fallback, "concept " + code + " not in catalog; treated as taxable insurable earning", nil
}

// Codes returns all registered codes. For host listings.
func (c *Catalog) Codes() []string {
	codes := make([]string, 0, len(c.concepts))
	for code := range c.concepts {
		codes = append(codes, code)
	}
	return codes
}

// Clone returns an independent copy, so hosts can register custom concepts
// without mutating a shared snapshot.
func (c *Catalog) Clone() *Catalog {
	next := NewCatalog(c.Strict)
	for code, concept := range c.concepts {
		next.concepts[code] = concept
	}
	return next
}
