package catalog

import (
	"reflect"
	"testing"
)

func sampleResources() []Resource {
	return []Resource{
		{DocID: "r1", Class: "9", Subject: "Physics", Book: "Physics 9", Chapter: "Motion"},
		{DocID: "r2", Class: "9", Subject: "Physics", Book: "Physics 9", Chapter: "Forces"},
		{DocID: "r3", Class: "9", Subject: "Chemistry", Book: "Chemistry 9", Chapter: "Atoms"},
		{DocID: "r4", Class: "10", Subject: "Physics", Book: "Physics 10", Chapter: "Waves"},
		{DocID: "r5", Class: "10", Subject: "Biology", Book: "Biology 10", Chapter: "Cells"},
	}
}

func TestOptionsFrom_EmptySelection(t *testing.T) {
	opts := optionsFrom(sampleResources(), Selection{})

	if !reflect.DeepEqual(opts.Classes, []string{"10", "9"}) {
		t.Errorf("Classes = %v", opts.Classes)
	}
	// No class chosen: all subjects visible
	if len(opts.Subjects) != 3 {
		t.Errorf("Subjects = %v, want 3 entries", opts.Subjects)
	}
}

func TestOptionsFrom_NarrowingNeverWidens(t *testing.T) {
	resources := sampleResources()

	all := optionsFrom(resources, Selection{})
	byClass := optionsFrom(resources, Selection{Class: "9"})
	bySubject := optionsFrom(resources, Selection{Class: "9", Subject: "Physics"})
	byBook := optionsFrom(resources, Selection{Class: "9", Subject: "Physics", Book: "Physics 9"})

	if len(byClass.Subjects) > len(all.Subjects) {
		t.Error("choosing a class widened the subject list")
	}
	if len(bySubject.Books) > len(byClass.Books) {
		t.Error("choosing a subject widened the book list")
	}
	if len(byBook.Chapters) > len(bySubject.Chapters) {
		t.Error("choosing a book widened the chapter list")
	}

	if !reflect.DeepEqual(byClass.Subjects, []string{"Chemistry", "Physics"}) {
		t.Errorf("Subjects for class 9 = %v", byClass.Subjects)
	}
	if !reflect.DeepEqual(bySubject.Books, []string{"Physics 9"}) {
		t.Errorf("Books for 9/Physics = %v", bySubject.Books)
	}
	if !reflect.DeepEqual(byBook.Chapters, []string{"Forces", "Motion"}) {
		t.Errorf("Chapters for Physics 9 = %v", byBook.Chapters)
	}
}

func TestOptionsFrom_WildcardClass(t *testing.T) {
	resources := sampleResources()

	wildcard := optionsFrom(resources, Selection{Class: AllClasses}.normalized())
	unset := optionsFrom(resources, Selection{})

	if !reflect.DeepEqual(wildcard, unset) {
		t.Error("class \"all\" should behave like an unset class")
	}
}

func TestNarrow(t *testing.T) {
	sel := Selection{}

	sel = Narrow(sel, "class", "9")
	if sel.Class != "9" {
		t.Errorf("Class = %s", sel.Class)
	}

	sel = Narrow(sel, "subject", "Physics")
	sel = Narrow(sel, "book", "Physics 9")
	if sel.Book != "Physics 9" {
		t.Errorf("Book = %s", sel.Book)
	}

	// Re-choosing an earlier level clears everything below it
	sel = Narrow(sel, "class", "10")
	if sel.Subject != "" || sel.Book != "" {
		t.Errorf("narrowing class should clear subject and book, got %+v", sel)
	}
}

func TestSelectionNormalized(t *testing.T) {
	// Subject without class has nothing to cascade from
	sel := Selection{Subject: "Physics", Book: "Physics 9"}.normalized()
	if sel.Subject != "" || sel.Book != "" {
		t.Errorf("expected orphaned levels cleared, got %+v", sel)
	}
}
