package staticmap

import "math"

// Projection functions between geographic degrees and the continuous
// Web Mercator tile plane. At a given zoom the plane spans 2^zoom tiles
// per axis; x grows eastwards, y grows southwards.
//
// Out-of-range coordinates are wrapped rather than rejected. NaN and
// infinite inputs propagate to the output.

// LonToX converts a longitude in degrees to an x coordinate in tile units.
func LonToX(lon float64, zoom int) float64 {
	if lon < -180 || lon >= 180 {
		// math.Mod keeps the dividend's sign, so shift negatives up
		lon = math.Mod(lon+180, 360)
		if lon < 0 {
			lon += 360
		}
		lon -= 180
	}

	return (lon + 180) / 360 * math.Exp2(float64(zoom))
}

// LatToY converts a latitude in degrees to a y coordinate in tile units.
func LatToY(lat float64, zoom int) float64 {
	if lat < -90 || lat >= 90 {
		lat = math.Mod(lat+90, 180)
		if lat < 0 {
			lat += 180
		}
		lat -= 90
	}

	latRad := lat * math.Pi / 180

	return (1 - math.Log(math.Tan(latRad)+1/math.Cos(latRad))/math.Pi) / 2 * math.Exp2(float64(zoom))
}

// XToLon is the inverse of LonToX.
func XToLon(x float64, zoom int) float64 {
	return x/math.Exp2(float64(zoom))*360 - 180
}

// YToLat is the inverse of LatToY.
func YToLat(y float64, zoom int) float64 {
	return math.Atan(math.Sinh(math.Pi*(1-2*y/math.Exp2(float64(zoom))))) / math.Pi * 180
}
