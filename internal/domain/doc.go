// Package domain models the CEP-to-representative resolution pipeline.
//
// # CEP conventions
//
// A CEP (Código de Endereçamento Postal) is an 8-digit Brazilian postal code,
// usually written NNNNN-NNN. The first five digits identify region, sub-region,
// sector, sub-sector and divisor; the three-digit suffix identifies a
// distribution point. Rural codes commonly end in -000.
//
// Input is accepted in any formatting: all non-digit characters are stripped
// before validation, and anything other than exactly 8 remaining digits is
// rejected before any network call. See [NormalizeCEP].
//
// # Candidate probing
//
// The lookup service only knows registered CEPs, so a valid code for a small
// street may not resolve while its neighbors do. When the exact code is not
// found, [CandidateCEPs] yields a bounded probe sequence:
//
//	phase 1: suffixes 001–020 on the same 5-digit prefix
//	         94900123 → 94900001, 94900002, … 94900020
//	phase 2: the 4th digit varied 1–9 with the tail zeroed
//	         94900123 → 94910000, 94920000, … 94990000
//
// Candidates are probed sequentially and probing stops at the first success;
// the order therefore matters and is part of the contract.
//
// # City comparison
//
// The lookup and geocoding services return inconsistent accenting for the same
// city ("Foz do Iguaçu" vs "Foz do Iguacu"), so every city comparison in the
// rule table goes through [NormalizeCity]: lower-case, trimmed, diacritics
// stripped via Unicode NFD decomposition.
//
// # Territory rules and distances
//
// Representative territories are negotiated business agreements, not pure
// nearest-distance regions: a representative may own a whole state regardless
// of a geographically closer colleague. Fixed rules are therefore evaluated in
// strict declaration order before any distance search, and the first match
// wins. Narrow rules (single city, tight radius) must be declared before broad
// ones (whole state) or the broad rule masks them.
//
// Distances are great-circle kilometers from the haversine formula with a
// mean Earth radius of 6371 km. The nearest-neighbor fallback only returns a
// representative within a cutoff (200 km by default); some territories use
// tighter radii (50–100 km) where coverage is dense.
package domain
