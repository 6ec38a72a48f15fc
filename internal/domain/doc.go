// Package domain models the two source datasets joined by the explorer and
// the rules that turn their raw CSV rows into typed records.
//
// # Data Sources
//
// Impact events come from the NASA Meteoritical Society "Meteorite Landings"
// export (meteorite-landings.csv). Yield records come from the Our World in
// Data wheat yield series (wheat-yield.csv). Both arrive as header CSVs and
// are handed to this package as [RawRow] maps keyed by column name.
//
// # Impact Columns
//
//	name      display label for the map marker popup
//	recclass  meteorite classification, e.g. "L6" or "H5"
//	reclat    WGS-84 latitude in decimal degrees
//	reclong   WGS-84 longitude in decimal degrees
//	year      fall/find date, "01/01/1880 12:00:00 AM" in the NASA export,
//	          a bare "1880" in trimmed copies
//
// The classification is used as the grouping key for impacts. It is not a
// country, but the index treats it exactly like one so that both datasets can
// be queried through the same key. Rows without a classification are grouped
// under "Unknown".
//
// # Yield Columns
//
//	Entity       country or region name
//	Year         calendar year
//	Wheat yield  tonnes per hectare
//
// # Missing Values
//
// Impact rows with a blank or non-numeric latitude, longitude or date are
// discarded. Yield rows with a blank country or unparseable year are
// discarded; a blank or non-numeric yield is read as 0. A zero yield and a
// missing measurement are therefore indistinguishable downstream.
package domain
