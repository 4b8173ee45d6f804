// internal/scoring/testdata_test.go
package scoring

import "supplement-workers/internal/models"

func testSupplement(id, name string, targets ...string) models.Supplement {
	return models.Supplement{
		ID:             id,
		Name:           name,
		Category:       models.CategoryOther,
		TargetSymptoms: targets,
		DosageMin:      100,
		DosageMax:      300,
		DosageUnit:     "mg",
		Timing:         models.TimingAny,
		EvidenceLevel:  models.EvidenceModerate,
	}
}

func testCatalog() []models.Supplement {
	return []models.Supplement{
		testSupplement("complexo-b", "Complexo B", "Fadiga", "Cansaço"),
		testSupplement("magnesio", "Magnésio", "Insônia", "Cãibras"),
		testSupplement("melatonina", "Melatonina", "Insônia"),
		testSupplement("l-teanina", "L-Teanina", "Ansiedade"),
		testSupplement("ashwagandha", "Ashwagandha", "Ansiedade", "Estresse"),
		testSupplement("rhodiola", "Rhodiola", "Fadiga"),
		testSupplement("creatina", "Creatina"),
		testSupplement("whey-protein", "Whey Protein"),
		testSupplement("coenzima-q10", "Coenzima Q10", "Fadiga"),
		testSupplement("vitamina-d3", "Vitamina D3", "Fadiga", "Imunidade baixa"),
	}
}
