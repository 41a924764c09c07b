// Package simulate generates synthetic hourly solar-production data for
// photovoltaic installations in Kenya.
//
// # Purpose
//
// The generator is a demo/load-testing data source, not an engineering-grade
// irradiance model. It produces plausible, bounded, time-varying output by
// layering simple physical effects on top of a clear-sky baseline.
//
// # Geometry models
//
// Two geometry strategies coexist as an enumerated model selection:
//
//	ModelBasic     Sun elevation from declination and hour angle, converted to
//	               an intensity factor through an air-mass attenuation proxy
//	               (0.7^(AM-1)). Weather is sampled once per day. This is the
//	               original, minimal variant.
//	ModelDetailed  Normalized clear-sky cosine proxy max(0, cos((h-12)·π/12))
//	               as the theoretical-maximum multiplier, with the full loss
//	               pipeline (thermal derate, soiling, faults, curtailment,
//	               noise) and per-hour weather. This is the current default.
//
// The two models are deliberate historical variants and are not reconciled;
// callers pick one via Params.Model.
//
// # Loss pipeline (ModelDetailed)
//
// Losses compound multiplicatively, in fixed order, on the theoretical
// maximum for the hour:
//
//	1. system efficiency (inverter/wiring, 0.85)
//	2. weather efficiency (sunny 1.0 … rainy 0.1)
//	3. thermal derate: 1 - max(0, (cellTemp-25)·0.004), cell temperature
//	   following a diurnal bell peaking at 45°C at hour 13
//	4. soiling: max(0.8, 1 - 0.01·min(daysSinceClean, 20))
//	5. aging: 1 - 0.005·years, plus a bounded random extra once years > 4
//	6. fault roll: 0.5% full outage, further 2% partial string derate
//	7. grid curtailment: every 60th absolute hour scaled by 0.7
//	8. seasonal adjustment: Kenyan dry months (Jan, Feb, Jun-Sep) up,
//	   rainy months (Mar-May, Oct-Dec) down, scaled by the location's
//	   seasonal variation
//	9. gaussian noise around 1.0, extra jitter under cloud or rain season,
//	   then an independent secondary outage roll (0.3%)
//	10. clamp to [0, capacity]
//
// Soiling accumulates one day per simulated hour and resets when the
// absolute hour index crosses a maintenance interval (120h).
//
// # Determinism
//
// Every generation call owns its own rand.Rand, seeded by a stable function
// of (base seed, date). The same request with the same seed reproduces the
// output bit for bit, and a multi-day range equals the concatenation of the
// independent single-day runs. No package-level random state exists, so
// concurrent generations never interfere.
//
// # Absolute hour index
//
// Curtailment and maintenance phase use hours since the Unix epoch rather
// than the clock hour, so periodic events drift across the day as they
// would on a real feeder, and single-day and range generation agree.
package simulate
