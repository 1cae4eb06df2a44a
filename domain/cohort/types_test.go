package cohort

import (
	"reflect"
	"testing"

	"github.com/ddsjoberg/gt/domain/core"
)

func TestCategoryTag(t *testing.T) {
	age := Variable{Key: "age", Label: "Age", Unit: "years", Type: TypeContinuous}
	if got := age.CategoryTag(); got != "Age, years" {
		t.Errorf("continuous tag = %q, want %q", got, "Age, years")
	}

	sex := Variable{Key: "sex", Label: "Sex", Unit: "years", Type: TypeCategorical}
	if got := sex.CategoryTag(); got != "Sex" {
		t.Errorf("categorical tag should ignore the unit, got %q", got)
	}

	noUnit := Variable{Key: "score", Label: "Score", Type: TypeContinuous}
	if got := noUnit.CategoryTag(); got != "Score" {
		t.Errorf("unitless tag = %q, want %q", got, "Score")
	}
}

func TestSubjectRecordValue(t *testing.T) {
	r := SubjectRecord{
		SubjectID: "s1",
		Group:     "A",
		Values:    map[core.VariableKey]Value{"age": NumValue(42)},
	}

	if v := r.Value("age"); v.Num != 42 || v.Missing {
		t.Errorf("Value(age) = %+v", v)
	}
	if v := r.Value("weight"); !v.Missing {
		t.Errorf("absent key should read as missing, got %+v", v)
	}
}

func TestGroupsFirstAppearanceOrder(t *testing.T) {
	records := []SubjectRecord{
		{SubjectID: "s1", Group: "B"},
		{SubjectID: "s2", Group: "A"},
		{SubjectID: "s3", Group: "B"},
	}

	if got := Groups(records); !reflect.DeepEqual(got, []string{"B", "A"}) {
		t.Errorf("Groups = %v, want [B A]", got)
	}
	want := map[string]int{"B": 2, "A": 1}
	if got := GroupTotals(records); !reflect.DeepEqual(got, want) {
		t.Errorf("GroupTotals = %v, want %v", got, want)
	}
}
