package bill

// Stage identifies one dated point in a bill's passage through the House.
type Stage int

const (
	// StageIntroduction is the date the bill was introduced.
	StageIntroduction Stage = iota
	// StageFirstReading is the first reading debate.
	StageFirstReading
	// StageSelectCommitteeReport is the date the select committee reports.
	StageSelectCommitteeReport
	// StageSubmissionsDue is the closing date for public submissions.
	StageSubmissionsDue
	// StageSecondReading is the second reading debate.
	StageSecondReading
	// StageCommitteeOfWholeHouse is the committee of the whole House stage.
	StageCommitteeOfWholeHouse
	// StageThirdReading is the third reading debate.
	StageThirdReading
	// StageRoyalAssent is the date the bill received royal assent.
	StageRoyalAssent

	// StageWithdrawn is the date the bill was withdrawn.
	StageWithdrawn
	// StageSecondReadingWithdrawn is a withdrawal at second reading.
	StageSecondReadingWithdrawn
	// StageCommittalDischarged discharges the order for committal.
	StageCommittalDischarged
	// StageConsiderationOfReportDischarged discharges consideration of the report.
	StageConsiderationOfReportDischarged
	// StageSecondReadingDischarged discharges the order for second reading.
	StageSecondReadingDischarged
	// StageFirstReadingDischarged discharges the order for first reading.
	StageFirstReadingDischarged
)

// stageLabels are the fixed event labels used on bill timelines. The
// discharge labels match the debate headings Hansard uses for them.
var stageLabels = [...]string{
	StageIntroduction:                    "Introduction",
	StageFirstReading:                    "First Reading",
	StageSelectCommitteeReport:           "SC Reports",
	StageSubmissionsDue:                  "Submissions Due",
	StageSecondReading:                   "Second Reading",
	StageCommitteeOfWholeHouse:           "In Committee",
	StageThirdReading:                    "Third Reading",
	StageRoyalAssent:                     "Royal Assent",
	StageWithdrawn:                       "Withdrawn",
	StageSecondReadingWithdrawn:          "Second reading withdrawn",
	StageCommittalDischarged:             "Committee of the whole House: Order of the day for committal discharged",
	StageConsiderationOfReportDischarged: "Consideration of report: Order of the day for consideration of report discharged",
	StageSecondReadingDischarged:         "Second reading: Order of the day for second reading discharged",
	StageFirstReadingDischarged:          "First reading: Order of the day for first reading discharged",
}

// MilestoneStages lists the progress milestones in timeline emission order.
var MilestoneStages = []Stage{
	StageIntroduction,
	StageFirstReading,
	StageSelectCommitteeReport,
	StageSubmissionsDue,
	StageSecondReading,
	StageCommitteeOfWholeHouse,
	StageThirdReading,
	StageRoyalAssent,
}

// DischargeStages lists the withdrawal and discharge stages in emission order.
var DischargeStages = []Stage{
	StageWithdrawn,
	StageSecondReadingWithdrawn,
	StageCommittalDischarged,
	StageConsiderationOfReportDischarged,
	StageSecondReadingDischarged,
	StageFirstReadingDischarged,
}

// AllStages is MilestoneStages followed by DischargeStages.
var AllStages = append(append([]Stage{}, MilestoneStages...), DischargeStages...)

// String returns the timeline label for the stage.
func (s Stage) String() string {
	if s >= 0 && int(s) < len(stageLabels) {
		return stageLabels[s]
	}
	return "Unknown"
}
