// Package importer loads OCR/VLM answer-set files into the relational store,
// creating one Form per file and attaching it to a resolved-or-created Person.
package importer

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/muster-archive/musterbackend/dates"
	"github.com/muster-archive/musterbackend/matching"
	"github.com/muster-archive/musterbackend/models"
)

// Question keys as emitted by the extraction pipeline for B102r forms.
const (
	keyLastname          = "B102r_1_Last_name"
	keyFirstname         = "B102r_2_First_name"
	keyArmyNumber        = "B102r_3_Army_number"
	keyRegiment          = "B102r_4_Regiment"
	keyEngagement        = "B102r_5_Nature_of_engagement"
	keyEnlistmentDate    = "B102r_6_Joining_date"
	keyDOB               = "B102r_7_DOB"
	keyNationality       = "B102r_8_Nationality"
	keyReligion          = "B102r_9_Religion"
	keyIndustry          = "B102r_10_Industry"
	keyOccupation        = "B102r_11_Occupation"
	keyNonEffectiveCause = "B102r_12_Non_effective_cause"
	keyMaritalStatus     = "B102r_13_Marital_status"
	keyHometown          = "B102r_14_Hometown"
	keyLocation          = "B102r_19_Location"
	keyRank              = "B102r_A_Rank"
	keyServiceTrade      = "B102r_B_Service_trade"
	keyMedicalCategory   = "B102r_C_Medical_category"
	keyFormType          = "B102r_Form_type"
)

// Importer imports answer-set files. Each ImportFile call runs inside one
// transaction so a Form is never persisted without its Person.
type Importer struct {
	DB *gorm.DB
}

// NewImporter creates a new instance of Importer
func NewImporter(db *gorm.DB) *Importer {
	return &Importer{DB: db}
}

// ExtractForm maps one parsed answer set onto a new Form. Every raw column
// gets the verbatim answer and every corrected column starts identical to it;
// canonical date shadows are filled where the raw text already parses.
func ExtractForm(sourceFilename string, questions map[string]Question) *models.Form {
	form := &models.Form{
		FormImage: filepath.ToSlash(filepath.Join(
			SourceIDFromFilename(sourceFilename), ImageName(sourceFilename))),
	}

	form.FormTypeRaw = Answer(questions, keyFormType)
	form.FormType = copyValue(form.FormTypeRaw)
	form.LastnameRaw = Answer(questions, keyLastname)
	form.Lastname = copyValue(form.LastnameRaw)
	form.FirstnameRaw = Answer(questions, keyFirstname)
	form.Firstname = copyValue(form.FirstnameRaw)
	form.ArmyNumberRaw = Answer(questions, keyArmyNumber)
	form.ArmyNumber = copyValue(form.ArmyNumberRaw)
	form.DOBRaw = Answer(questions, keyDOB)
	form.DOB = copyValue(form.DOBRaw)
	form.DOBDate = normalizeIfPossible(form.DOB)
	form.DateOfEnlistmentRaw = Answer(questions, keyEnlistmentDate)
	form.DateOfEnlistment = copyValue(form.DateOfEnlistmentRaw)
	form.DateOfEnlistmentDate = normalizeIfPossible(form.DateOfEnlistment)
	form.NonEffectiveCauseRaw = Answer(questions, keyNonEffectiveCause)
	form.NonEffectiveCause = copyValue(form.NonEffectiveCauseRaw)
	form.LocationRaw = Answer(questions, keyLocation)
	form.Location = copyValue(form.LocationRaw)
	form.RegimentRaw = Answer(questions, keyRegiment)
	form.Regiment = copyValue(form.RegimentRaw)
	form.EngagementRaw = Answer(questions, keyEngagement)
	form.Engagement = copyValue(form.EngagementRaw)
	form.NationalityRaw = Answer(questions, keyNationality)
	form.Nationality = copyValue(form.NationalityRaw)
	form.ReligionRaw = Answer(questions, keyReligion)
	form.Religion = copyValue(form.ReligionRaw)
	form.IndustryRaw = Answer(questions, keyIndustry)
	form.Industry = copyValue(form.IndustryRaw)
	form.OccupationRaw = Answer(questions, keyOccupation)
	form.Occupation = copyValue(form.OccupationRaw)
	form.MaritalStatusRaw = Answer(questions, keyMaritalStatus)
	form.MaritalStatus = copyValue(form.MaritalStatusRaw)
	form.HometownRaw = Answer(questions, keyHometown)
	form.Hometown = copyValue(form.HometownRaw)
	form.RankRaw = Answer(questions, keyRank)
	form.Rank = copyValue(form.RankRaw)
	form.ServiceTradeRaw = Answer(questions, keyServiceTrade)
	form.ServiceTrade = copyValue(form.ServiceTradeRaw)
	form.MedicalCategoryRaw = Answer(questions, keyMedicalCategory)
	form.MedicalCategory = copyValue(form.MedicalCategoryRaw)

	return form
}

// ResolvePerson finds or creates the Person a form belongs to. The source-id
// grouping is authoritative for attachment: zero matches creates a new Person
// seeded from the form's raw names, one match returns it, and multiple matches
// (two individuals sharing one scanned bundle) log a warning and return the
// lowest-id match. The name-matching verdict is logged for manual audit but
// never blocks attachment.
func (im *Importer) ResolvePerson(sourceID string, form *models.Form) (*models.Person, error) {
	return resolvePerson(im.DB, sourceID, form)
}

func resolvePerson(db *gorm.DB, sourceID string, form *models.Form) (*models.Person, error) {
	var people []models.Person
	err := db.Where("source_id = ?", sourceID).Order("id ASC").Find(&people).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query people for source %s: %w", sourceID, err)
	}

	if len(people) == 0 {
		person := &models.Person{
			SourceID:  sourceID,
			Lastname:  copyValue(form.LastnameRaw),
			Firstname: copyValue(form.FirstnameRaw),
		}
		if err := db.Create(person).Error; err != nil {
			return nil, fmt.Errorf("failed to create person for source %s: %w", sourceID, err)
		}
		log.Printf("created person id=%d for source_id=%s", person.ID, sourceID)
		return person, nil
	}

	if len(people) > 1 {
		log.Printf("WARNING: %d people share source_id=%s; attaching to person id=%d pending multi-person bundle support",
			len(people), sourceID, people[0].ID)
	}

	person := people[0]
	matching.IsMatch(&person, form)
	return &person, nil
}

// ImportFile imports one answer-set file: parse, extract a Form, resolve the
// Person, attach and persist, all in one transaction. Importing the same file
// twice resolves to the same Person but appends a second Form row; tracking
// already-processed files is the caller's responsibility.
func (im *Importer) ImportFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read answer set %s: %w", path, err)
	}

	set, err := ParseAnswerSet(data)
	if err != nil {
		return fmt.Errorf("failed to parse answer set %s: %w", path, err)
	}
	questions, err := set.FirstSection()
	if err != nil {
		return fmt.Errorf("answer set %s: %w", path, err)
	}
	if len(set.Models) > 1 {
		log.Printf("answer set %s has %d model sections; using the first", path, len(set.Models))
	}

	form := ExtractForm(filepath.Base(path), questions)
	sourceID := SourceIDFromFilename(path)

	return im.DB.Transaction(func(tx *gorm.DB) error {
		person, err := resolvePerson(tx, sourceID, form)
		if err != nil {
			return err
		}
		form.PersonID = person.ID
		if err := tx.Create(form).Error; err != nil {
			return fmt.Errorf("failed to create form for %s: %w", path, err)
		}
		return nil
	})
}

// ImportDir imports every *.json answer set in a directory sequentially, in
// filename order. Per-file failures are logged and skipped so one bad file
// does not abort the batch.
func (im *Importer) ImportDir(dir string) (int, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return 0, fmt.Errorf("failed to list answer sets in %s: %w", dir, err)
	}
	sort.Strings(paths)

	imported := 0
	failed := 0
	start := time.Now()
	for _, path := range paths {
		if err := im.ImportFile(path); err != nil {
			log.Printf("ERROR importing %s: %v", path, err)
			failed++
			continue
		}
		imported++
	}
	log.Printf("imported %d of %d answer sets from %s in %s", imported, len(paths), dir, time.Since(start))

	if failed > 0 {
		return imported, fmt.Errorf("%d of %d answer sets failed to import", failed, len(paths))
	}
	return imported, nil
}

func copyValue(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func normalizeIfPossible(text *string) *time.Time {
	if text == nil {
		return nil
	}
	d, err := dates.Normalize(*text)
	if err != nil {
		return nil
	}
	return d
}
