// Package domain models destination weather resolved from raw ingestion events.
//
// # Data Source
//
// An external ingestion pipeline appends one JSON object per weather event to
// an object store under date partitions:
//
//	events/2026/10/19/<id>.json
//
// There is no city index. Lookups list the two most recent partitions and
// inspect objects newest first.
//
// # Event Shapes
//
// Two producers write incompatible documents. Both nest the measurement under
// "data":
//
//	{"data":{"payload":{"city":"Mumbai","temperature":303,"humidity":64,"weather":"Clear"}}}
//	{"data":{"xdm":{"customFields":{"weather":{"city":"Dubai","temperature":95,...}}}}}
//
// The first is a [PayloadEvent], the second an [XDMEvent]. In the XDM shape the
// city may instead appear at weather.city or placeContext.geoCity.
//
// # Temperature Units
//
// Neither producer tags the unit. [DetectUnit] infers it from magnitude:
//
//	> 200        Kelvin      298   -> 24.9 °C
//	50 .. 150    Fahrenheit  75    -> 23.9 °C
//	-50 .. 60    Celsius     21    -> 21.0 °C
//	150 .. 200   rejected
//
// Results outside -50..60 °C after conversion are rejected as well.
//
// # City Names
//
// Booking data uses airport codes ("DXB"), former names ("Bangalore") and free
// text. [Resolver] folds all of these onto one canonical spelling using an
// [AliasTable] built from the airport registry, or a built-in fallback list
// when the registry cannot be read.
package domain
