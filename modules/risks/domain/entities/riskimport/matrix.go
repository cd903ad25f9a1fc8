package riskimport

type matrixKey struct {
	likelihood string
	severity   string
}

// The 5x5 level matrices are fixed data built once at init. Lookups by
// unknown labels miss and return no level instead of failing.
var (
	projectMatrix = buildMatrix(projectLikelihoods, projectSeverities, [5][5]string{
		// Negligible      Minor            Moderate         Major            Catastrophic
		{"No risk", "Very low risk", "Low risk", "Low risk", "Low risk"},                          // Rare
		{"Very low risk", "Low risk", "Medium risk", "Medium risk", "Medium risk"},                // Unlikely
		{"Low risk", "Medium risk", "Medium risk", "High risk", "High risk"},                      // Possible
		{"Low risk", "Medium risk", "High risk", "High risk", "Very high risk"},                   // Likely
		{"Low risk", "Medium risk", "High risk", "Very high risk", "Very high risk"},              // Almost Certain
	})

	vendorMatrix = buildMatrix(vendorLikelihoods, vendorImpacts, [5][5]string{
		// Insignificant   Minor            Moderate         Major            Severe
		{"Very low risk", "Very low risk", "Low risk", "Low risk", "Medium risk"},                 // Very unlikely
		{"Very low risk", "Low risk", "Low risk", "Medium risk", "Medium risk"},                   // Unlikely
		{"Low risk", "Low risk", "Medium risk", "High risk", "High risk"},                         // Possible
		{"Low risk", "Medium risk", "High risk", "High risk", "Very high risk"},                   // Likely
		{"Medium risk", "Medium risk", "High risk", "Very high risk", "Very high risk"},           // Very likely
	})
)

func buildMatrix(likelihoods, severities []string, cells [5][5]string) map[matrixKey]string {
	m := make(map[matrixKey]string, len(likelihoods)*len(severities))
	for i, l := range likelihoods {
		for j, s := range severities {
			if cells[i][j] == "" {
				continue
			}
			m[matrixKey{likelihood: l, severity: s}] = cells[i][j]
		}
	}
	return m
}

// Level resolves the risk level for a likelihood/severity pair. The second
// return value is false when either input is empty or the pair is outside
// the matrix; callers treat that as "no calculated level".
func Level(t RiskType, likelihood, severity string) (string, bool) {
	if likelihood == "" || severity == "" {
		return "", false
	}
	matrix := projectMatrix
	if t == TypeVendor {
		matrix = vendorMatrix
	}
	level, ok := matrix[matrixKey{likelihood: likelihood, severity: severity}]
	return level, ok
}
