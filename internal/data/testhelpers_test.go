package data

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleCSV = `"0","16777215","-","-","-","-","0.000000","0.000000"
"16777216","16777471","US","United States of America","California","Los Angeles","34.052230","-118.243680"
"16777472","16778239","CN","China","Fujian","Fuzhou","26.061390","119.306110"
"16778240","16779263","AU","Australia","Victoria","Melbourne","-37.814000","144.963320"
"16779264","16781311","CN","China","Guangdong","Guangzhou","23.116670","113.250000"
"16781312","16785407","JP","Japan","Tokyo","Tokyo","35.689506","139.691700"
`

// threeRowCSV leaves everything from 16779264 upwards unmapped.
const threeRowCSV = `16777216,16777471,US,United States of America,California,Los Angeles,34.052230,-118.243680
16777472,16778239,CN,China,Fujian,Fuzhou,26.061390,119.306110
16778240,16779263,AU,Australia,Victoria,Melbourne,-37.814000,144.963320
`

// sampleRows is the number of rows in sampleCSV.
const sampleRows = 6

// writeDataset writes content to a fresh file and returns its path.
func writeDataset(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ranges.csv")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write dataset: %v", err)
	}
	return path
}
