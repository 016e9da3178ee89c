/*
Package factory provides builder programs for well-known reference zones.

PURPOSE:
  Canned zone histories used to seed a registry and as end-to-end fixtures.
  Each function runs a complete builder program and returns the compiled
  descriptor; nothing here is read from disk or network.

THE ZONES:
  America/Los_Angeles  full historical program: the LMT era, the 1883
                       railway-time cutover, wartime and postwar rule
                       churn, and the endless post-1987 rule pair that
                       compiles into a perpetual tail.
  Australia/Brisbane   a zone whose daylight rules label summer and winter
                       identically ("EST"), exercising the name-key
                       disambiguation.
  Etc/GMT+8, Etc/UTC   fixed-offset programs.

USAGE:
  zones, err := factory.BuildAll()
  for _, z := range zones {
      reg.Register(ctx, z)
  }

SEE ALSO:
  - zone/builder.go: the builder these programs drive
*/
package factory

import "github.com/meridian/zone-engine/zone"

// AmericaLosAngeles compiles the Pacific time zone with all historical
// transitions and the perpetual post-1987 daylight rule pair.
func AmericaLosAngeles() (zone.Zone, error) {
	return zone.NewBuilder().
		AddCutover(zone.MinYear, 'w', 1, 1, 0, false, 0).
		SetStandardOffset(-28378000).
		SetFixedSavings("LMT", 0).
		AddCutover(1883, 'w', 11, 18, 0, false, 43200000).
		SetStandardOffset(-28800000).
		AddRecurringSavings("PDT", 3600000, 1918, 1919, 'w', 3, -1, 7, false, 7200000).
		AddRecurringSavings("PST", 0, 1918, 1919, 'w', 10, -1, 7, false, 7200000).
		AddRecurringSavings("PWT", 3600000, 1942, 1942, 'w', 2, 9, 0, false, 7200000).
		AddRecurringSavings("PPT", 3600000, 1945, 1945, 'u', 8, 14, 0, false, 82800000).
		AddRecurringSavings("PST", 0, 1945, 1945, 'w', 9, 30, 0, false, 7200000).
		AddRecurringSavings("PDT", 3600000, 1948, 1948, 'w', 3, 14, 0, false, 7200000).
		AddRecurringSavings("PST", 0, 1949, 1949, 'w', 1, 1, 0, false, 7200000).
		AddRecurringSavings("PDT", 3600000, 1950, 1966, 'w', 4, -1, 7, false, 7200000).
		AddRecurringSavings("PST", 0, 1950, 1961, 'w', 9, -1, 7, false, 7200000).
		AddRecurringSavings("PST", 0, 1962, 1966, 'w', 10, -1, 7, false, 7200000).
		AddRecurringSavings("PST", 0, 1967, zone.MaxYear, 'w', 10, -1, 7, false, 7200000).
		AddRecurringSavings("PDT", 3600000, 1967, 1973, 'w', 4, -1, 7, false, 7200000).
		AddRecurringSavings("PDT", 3600000, 1974, 1974, 'w', 1, 6, 0, false, 7200000).
		AddRecurringSavings("PDT", 3600000, 1975, 1975, 'w', 2, 23, 0, false, 7200000).
		AddRecurringSavings("PDT", 3600000, 1976, 1986, 'w', 4, -1, 7, false, 7200000).
		AddRecurringSavings("PDT", 3600000, 1987, zone.MaxYear, 'w', 4, 1, 7, true, 7200000).
		Build("America/Los_Angeles", true)
}

// AustraliaBrisbane compiles a Queensland-style history: UTC+10 standard
// time with a brief daylight experiment whose summer and winter regimes
// both answer to "EST". The duplicate labels are what the builder's
// disambiguation pass exists for.
func AustraliaBrisbane() (zone.Zone, error) {
	return zone.NewBuilder().
		AddCutover(zone.MinYear, 'w', 1, 1, 0, false, 0).
		SetStandardOffset(36756000).
		SetFixedSavings("LMT", 0).
		AddCutover(1895, 'w', 1, 1, 0, false, 0).
		SetStandardOffset(36000000).
		AddRecurringSavings("EST", 3600000, 1989, 1991, 's', 10, -1, 7, false, 7200000).
		AddRecurringSavings("EST", 0, 1990, 1992, 's', 3, 1, 7, true, 7200000).
		Build("Australia/Brisbane", true)
}

// EtcGMTPlus8 compiles the fixed UTC-8 zone of the POSIX-signed Etc area.
func EtcGMTPlus8() (zone.Zone, error) {
	return zone.NewBuilder().
		AddCutover(zone.MinYear, 'w', 1, 1, 0, false, 0).
		SetStandardOffset(-28800000).
		SetFixedSavings("-08", 0).
		Build("Etc/GMT+8", true)
}

// EtcUTC compiles the trivial zone.
func EtcUTC() (zone.Zone, error) {
	return zone.NewBuilder().Build("UTC", true)
}

// BuildAll compiles every reference zone.
func BuildAll() ([]zone.Zone, error) {
	builders := []func() (zone.Zone, error){
		AmericaLosAngeles,
		AustraliaBrisbane,
		EtcGMTPlus8,
		EtcUTC,
	}
	zones := make([]zone.Zone, 0, len(builders))
	for _, build := range builders {
		z, err := build()
		if err != nil {
			return nil, err
		}
		zones = append(zones, z)
	}
	return zones, nil
}
