package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"churchdesk/internal/domain/attendance"
	"churchdesk/internal/domain/dateutil"
	"churchdesk/internal/domain/equipment"
	"churchdesk/internal/domain/feedback"
	"churchdesk/internal/domain/finance"
	"churchdesk/internal/domain/member"
	"churchdesk/internal/domain/partnership"
	"churchdesk/internal/domain/welfare"
)

// SampleSeed is the default generator seed; the same seed and clock produce the same data.
const SampleSeed uint64 = 2024

// SeedSampleDeps holds every store the sample generator writes to.
type SeedSampleDeps struct {
	Members     RegisterMemberDeps
	Attendance  RecordAttendanceDeps
	Finance     AddTransactionDeps
	Children    RegisterChildDeps
	CheckIns    ChildCheckInDeps
	Partners    PartnerDeps
	Visitors    VisitorDeps
	Programs    ProgramDeps
	Equipment   EquipmentDeps
	Groups      GroupDeps
	Prayer      PrayerDeps
	Welfare     WelfareDeps
	Feedback    FeedbackDeps
	Now         func() time.Time
	Seed        uint64 // 0 uses SampleSeed
	MemberCount int    // 0 uses 24
}

// SeedSampleResult reports how many rows were generated per module.
type SeedSampleResult struct {
	Counts map[string]int
}

var (
	sampleFirstNames = []string{"Kwame", "Ama", "Kofi", "Akosua", "Yaw", "Abena", "Kojo", "Efua", "Kwesi", "Adwoa", "Nana", "Esi", "Fiifi", "Afia", "Kwabena", "Yaa"}
	sampleLastNames  = []string{"Mensah", "Owusu", "Boateng", "Asante", "Osei", "Agyeman", "Appiah", "Darko", "Addo", "Ofori"}
	sampleMarital    = []string{"Single", "Married", "Widowed"}
	sampleTowns      = []string{"Adenta", "Madina", "East Legon", "Tema", "Kasoa", "Dansoman"}
)

// ExecuteSeedSample fills every module with deterministic demonstration data.
// PRE: stores are empty (ids are allocated as usual otherwise)
// POST: each module holds sample rows; returns per-module counts
func ExecuteSeedSample(ctx context.Context, deps SeedSampleDeps) (SeedSampleResult, error) {
	now := time.Now
	if deps.Now != nil {
		now = deps.Now
	}
	seed := deps.Seed
	if seed == 0 {
		seed = SampleSeed
	}
	n := deps.MemberCount
	if n <= 0 {
		n = 24
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	today := now()
	counts := make(map[string]int)
	pick := func(xs []string) string { return xs[rng.IntN(len(xs))] }

	// Members
	var memberIDs []string
	for i := 0; i < n; i++ {
		first, last := pick(sampleFirstNames), pick(sampleLastNames)
		age := 8 + rng.IntN(68)
		dob := today.AddDate(-age, -rng.IntN(12), -rng.IntN(28))
		gender := member.GenderMale
		if rng.IntN(2) == 0 {
			gender = member.GenderFemale
		}
		status := member.StatusActive
		if rng.IntN(8) == 0 {
			status = member.StatusInactive
		}
		m, err := ExecuteRegisterMember(ctx, RegisterMemberInput{
			Name:          first + " " + last,
			Email:         fmt.Sprintf("%s.%s%d@example.org", strings.ToLower(first), strings.ToLower(last), i+1),
			Phone:         fmt.Sprintf("024%07d", rng.IntN(10_000_000)),
			DOB:           dateutil.Format(dob),
			Gender:        gender,
			Department:    pick(member.Departments),
			Status:        status,
			MaritalStatus: pick(sampleMarital),
			Address:       pick(sampleTowns),
		}, deps.Members)
		if err != nil {
			return SeedSampleResult{}, fmt.Errorf("seed member: %w", err)
		}
		memberIDs = append(memberIDs, m.ID)
	}
	counts["members"] = len(memberIDs)

	// Attendance for the last twelve Sundays
	lastSunday := today.AddDate(0, 0, -int(today.Weekday()))
	for w := 0; w < 12; w++ {
		date := dateutil.Format(lastSunday.AddDate(0, 0, -7*w))
		for _, id := range memberIDs {
			status := attendance.StatusPresent
			switch r := rng.IntN(10); {
			case r < 2:
				status = attendance.StatusAbsent
			case r == 2:
				status = attendance.StatusExcused
			}
			if _, err := ExecuteRecordAttendance(ctx, RecordAttendanceInput{
				MemberID:    id,
				ServiceDate: date,
				ServiceType: attendance.ServiceSunday,
				Status:      status,
			}, deps.Attendance); err != nil {
				return SeedSampleResult{}, fmt.Errorf("seed attendance: %w", err)
			}
			counts["attendance"]++
		}
	}

	// Finance: tithes per member and monthly offerings and bills
	for month := 0; month < 6; month++ {
		date := dateutil.Format(today.AddDate(0, -month, -rng.IntN(20)))
		for _, id := range memberIDs {
			if rng.IntN(3) == 0 {
				continue
			}
			if err := seedTx(ctx, deps.Finance, finance.TypeIncome, finance.CategoryTithe, int64(50+rng.IntN(450)), date, id); err != nil {
				return SeedSampleResult{}, err
			}
			counts["transactions"]++
		}
		incomes := []string{finance.CategoryOffering, finance.CategoryDonation, finance.CategoryBuildFund}
		for _, cat := range incomes {
			if err := seedTx(ctx, deps.Finance, finance.TypeIncome, cat, int64(200+rng.IntN(1800)), date, ""); err != nil {
				return SeedSampleResult{}, err
			}
			counts["transactions"]++
		}
		for _, cat := range finance.ExpenseCategories {
			if err := seedTx(ctx, deps.Finance, finance.TypeExpense, cat, int64(100+rng.IntN(900)), date, ""); err != nil {
				return SeedSampleResult{}, err
			}
			counts["transactions"]++
		}
	}

	// Children with today's check-ins
	for i := 0; i < 8; i++ {
		c, err := ExecuteRegisterChild(ctx, RegisterChildInput{
			Name:        pick(sampleFirstNames) + " " + pick(sampleLastNames),
			DOB:         dateutil.Format(today.AddDate(-1-rng.IntN(15), -rng.IntN(12), 0)),
			Gender:      []string{member.GenderMale, member.GenderFemale}[rng.IntN(2)],
			ParentName:  pick(sampleFirstNames) + " " + pick(sampleLastNames),
			ParentPhone: fmt.Sprintf("020%07d", rng.IntN(10_000_000)),
		}, deps.Children)
		if err != nil {
			return SeedSampleResult{}, fmt.Errorf("seed child: %w", err)
		}
		counts["children"]++
		if i%2 == 0 {
			if _, err := ExecuteChildCheckIn(ctx, ChildCheckInInput{ChildID: c.ID}, deps.CheckIns); err != nil {
				return SeedSampleResult{}, fmt.Errorf("seed child check-in: %w", err)
			}
			counts["child_checkins"]++
		}
	}

	// Partners and contributions
	for i := 0; i < 6; i++ {
		name := pick(sampleFirstNames) + " " + pick(sampleLastNames)
		p, err := ExecuteCreatePartner(ctx, CreatePartnerInput{
			Name:            name,
			Email:           fmt.Sprintf("partner%d@example.org", i+1),
			Phone:           fmt.Sprintf("055%07d", rng.IntN(10_000_000)),
			PartnershipDate: dateutil.Format(today.AddDate(0, -rng.IntN(24), 0)),
			Tier:            pick(partnership.Tiers),
		}, deps.Partners)
		if err != nil {
			return SeedSampleResult{}, fmt.Errorf("seed partner: %w", err)
		}
		counts["partners"]++
		for j := 0; j < 1+rng.IntN(4); j++ {
			if _, _, err := ExecuteAddContribution(ctx, AddContributionInput{
				PartnerID: p.ID,
				Amount:    decimal.NewFromInt(int64(100 + rng.IntN(900))),
				Type:      partnership.ContributionMonthly,
				Date:      dateutil.Format(today.AddDate(0, 0, -rng.IntN(90))),
			}, deps.Partners); err != nil {
				return SeedSampleResult{}, fmt.Errorf("seed contribution: %w", err)
			}
			counts["contributions"]++
		}
	}

	// Visitors
	for i := 0; i < 5; i++ {
		v, err := ExecuteRegisterVisitor(ctx, RegisterVisitorInput{
			Name:      pick(sampleFirstNames) + " " + pick(sampleLastNames),
			Phone:     fmt.Sprintf("026%07d", rng.IntN(10_000_000)),
			VisitDate: dateutil.Format(lastSunday.AddDate(0, 0, -7*rng.IntN(4))),
			InvitedBy: pick(sampleFirstNames),
		}, deps.Visitors)
		if err != nil {
			return SeedSampleResult{}, fmt.Errorf("seed visitor: %w", err)
		}
		counts["visitors"]++
		if i < 2 {
			if _, err := ExecuteRecordFollowUp(ctx, RecordFollowUpInput{VisitorID: v.ID, By: "Follow-up team", Method: "Call", Note: "Welcomed and invited back"}, deps.Visitors); err != nil {
				return SeedSampleResult{}, fmt.Errorf("seed follow-up: %w", err)
			}
		}
	}

	// Programs
	programs := []CreateProgramInput{
		{Name: "Youth Camp", Venue: "Akosombo", Description: "Three days of **worship**, games and teaching.", ExpectedAttendance: 120, Budget: decimal.NewFromInt(15000)},
		{Name: "Harvest Thanksgiving", Venue: "Main Auditorium", Description: "Annual harvest and bazaar.", ExpectedAttendance: 600, Budget: decimal.NewFromInt(8000)},
		{Name: "Community Outreach", Venue: "Madina Market", Description: "Free health screening and prayer.", ExpectedAttendance: 200, Budget: decimal.NewFromInt(3500)},
	}
	for i, in := range programs {
		in.Date = dateutil.Format(today.AddDate(0, 0, 14*(i+1)))
		if _, err := ExecuteCreateProgram(ctx, in, deps.Programs); err != nil {
			return SeedSampleResult{}, fmt.Errorf("seed program: %w", err)
		}
		counts["programs"]++
	}

	// Equipment
	items := []AddEquipmentInput{
		{Name: "Mixing Console", Category: "Sound", Quantity: 1, Condition: equipment.ConditionGood, Location: "Media Room", Value: decimal.NewFromInt(12000)},
		{Name: "Wireless Microphone", Category: "Sound", Quantity: 6, Condition: equipment.ConditionFair, Location: "Media Room", Value: decimal.NewFromInt(3000)},
		{Name: "Keyboard", Category: "Instruments", Quantity: 2, Condition: equipment.ConditionNeedsRepair, Location: "Choir Stand", Value: decimal.NewFromInt(7000)},
		{Name: "Plastic Chairs", Category: "Furniture", Quantity: 400, Condition: equipment.ConditionGood, Location: "Store", Value: decimal.NewFromInt(20000)},
		{Name: "Projector", Category: "Electronics", Quantity: 1, Condition: equipment.ConditionPoor, Location: "Auditorium", Value: decimal.NewFromInt(4500)},
	}
	for _, in := range items {
		if _, err := ExecuteAddEquipment(ctx, in, deps.Equipment); err != nil {
			return SeedSampleResult{}, fmt.Errorf("seed equipment: %w", err)
		}
		counts["equipment"]++
	}

	// Groups
	for i, name := range []string{"Men's Fellowship", "Women's Fellowship", "Youth Cell"} {
		g, err := ExecuteCreateGroup(ctx, CreateGroupInput{Name: name, Leader: pick(sampleFirstNames), MeetingDay: "Saturday"}, deps.Groups)
		if err != nil {
			return SeedSampleResult{}, fmt.Errorf("seed group: %w", err)
		}
		counts["groups"]++
		for j := i; j < len(memberIDs); j += 3 {
			if _, err := ExecuteAddGroupMember(ctx, g.ID, memberIDs[j], deps.Groups); err != nil {
				return SeedSampleResult{}, fmt.Errorf("seed group member: %w", err)
			}
		}
	}

	// Prayer
	for i, text := range []string{"Journey mercies for the youth camp", "Healing for my father", "Job interview next week"} {
		r, err := ExecuteSubmitPrayer(ctx, SubmitPrayerInput{Requester: pick(sampleFirstNames), Request: text, Private: i == 1}, deps.Prayer)
		if err != nil {
			return SeedSampleResult{}, fmt.Errorf("seed prayer: %w", err)
		}
		counts["prayer"]++
		if i == 2 {
			if _, err := ExecuteMarkPrayerAnswered(ctx, r.ID, "Got the job", deps.Prayer); err != nil {
				return SeedSampleResult{}, err
			}
		}
	}

	// Welfare: one pending, one approved, one paid
	if len(memberIDs) >= 3 {
		for i, typ := range []string{welfare.TypeMedical, welfare.TypeBereavement, welfare.TypeChildBirth} {
			c, err := ExecuteSubmitClaim(ctx, SubmitClaimInput{
				MemberID:        memberIDs[i],
				Type:            typ,
				Reason:          typ + " support",
				AmountRequested: decimal.NewFromInt(int64(300 + 100*i)),
			}, deps.Welfare)
			if err != nil {
				return SeedSampleResult{}, fmt.Errorf("seed claim: %w", err)
			}
			counts["welfare_claims"]++
			if i >= 1 {
				if _, err := ExecuteDecideClaim(ctx, c.ID, true, deps.Welfare); err != nil {
					return SeedSampleResult{}, err
				}
			}
			if i == 2 {
				if _, err := ExecutePayClaim(ctx, PayClaimInput{ClaimID: c.ID, Method: finance.MethodMobile}, deps.Welfare); err != nil {
					return SeedSampleResult{}, err
				}
				counts["welfare_payments"]++
			}
		}
	}

	// Feedback
	for i := 0; i < 6; i++ {
		if _, err := ExecuteSubmitFeedback(ctx, SubmitFeedbackInput{
			Category:  pick(feedback.Categories),
			Message:   "Sample feedback from the congregation",
			Rating:    1 + rng.IntN(5),
			Anonymous: i%2 == 0,
			Name:      pick(sampleFirstNames),
		}, deps.Feedback); err != nil {
			return SeedSampleResult{}, fmt.Errorf("seed feedback: %w", err)
		}
		counts["feedback"]++
	}

	slog.Info("seed_event", "event", "sample_data_seeded", "seed", seed, "members", counts["members"], "transactions", counts["transactions"])
	return SeedSampleResult{Counts: counts}, nil
}

func seedTx(ctx context.Context, deps AddTransactionDeps, txType, category string, amount int64, date, memberID string) error {
	_, err := ExecuteAddTransaction(ctx, AddTransactionInput{
		Type:          txType,
		Category:      category,
		Amount:        decimal.NewFromInt(amount),
		Date:          date,
		MemberID:      memberID,
		PaymentMethod: finance.MethodCash,
	}, deps)
	if err != nil {
		return fmt.Errorf("seed %s transaction: %w", category, err)
	}
	return nil
}
