package skills

import (
	"fmt"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

type posting struct {
	id     string
	skills []string
}

func postingSkills(p posting) []string { return p.skills }

func ids(r Result[posting]) []string {
	out := make([]string, 0, len(r.Matches))
	for _, m := range r.Matches {
		out = append(out, m.Item.id)
	}
	return out
}

func TestRank(t *testing.T) {
	Convey("Given a candidate with React, Node.js and MongoDB", t, func() {
		candidate := []string{"React", "Node.js", "MongoDB"}
		jobs := []posting{
			{id: "job1", skills: []string{"React"}},
			{id: "job2", skills: []string{"React", "Node.js", "MongoDB"}},
			{id: "job3", skills: []string{"AWS"}},
		}

		Convey("Jobs are ordered by score and disjoint jobs are excluded", func() {
			r := Rank(candidate, true, jobs, postingSkills)

			So(r.Status, ShouldEqual, StatusOK)
			So(ids(r), ShouldResemble, []string{"job2", "job1"})
			So(r.Matches[0].Score, ShouldEqual, 1.0)
			So(r.Matches[0].Percentage, ShouldEqual, 100)
			So(r.Matches[1].Score, ShouldAlmostEqual, 1.0/3.0, 1e-9)
			So(r.Matches[1].Percentage, ShouldEqual, 33)
		})

		Convey("Each match lists matching and missing skills", func() {
			r := Rank([]string{"React"}, true, []posting{{id: "j", skills: []string{"React", "AWS"}}}, postingSkills)

			So(r.Matches, ShouldHaveLength, 1)
			So(r.Matches[0].Matching, ShouldResemble, []string{"React"})
			So(r.Matches[0].Missing, ShouldResemble, []string{"AWS"})
		})
	})

	Convey("Given a candidate without a profile", t, func() {
		r := Rank(nil, false, []posting{{id: "j", skills: []string{"React"}}}, postingSkills)

		So(r.Status, ShouldEqual, StatusNoProfile)
		So(r.Matches, ShouldBeEmpty)
	})

	Convey("Given a profile that matches nothing", t, func() {
		r := Rank([]string{"Cobol"}, true, []posting{{id: "j", skills: []string{"React"}}}, postingSkills)

		So(r.Status, ShouldEqual, StatusOK)
		So(r.Matches, ShouldBeEmpty)
	})

	Convey("Given a profile with no skills at all", t, func() {
		r := Rank([]string{}, true, []posting{{id: "j", skills: []string{"React"}}}, postingSkills)

		So(r.Status, ShouldEqual, StatusOK)
		So(r.Matches, ShouldBeEmpty)
	})

	Convey("Given scores at and around the threshold", t, func() {
		// 1 common skill over 10 is exactly 0.1 and must be excluded.
		ten := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"}
		nine := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i"}
		r := Rank([]string{"a"}, true, []posting{
			{id: "at", skills: ten},
			{id: "above", skills: nine},
		}, postingSkills)

		So(ids(r), ShouldResemble, []string{"above"})
		for _, m := range r.Matches {
			So(m.Score, ShouldBeGreaterThan, MatchThreshold)
		}
	})

	Convey("Given more qualifying jobs than the cap", t, func() {
		jobs := make([]posting, 0, 15)
		for i := 0; i < 15; i++ {
			jobs = append(jobs, posting{id: fmt.Sprintf("job%02d", i), skills: []string{"React"}})
		}
		r := Rank([]string{"React"}, true, jobs, postingSkills)

		Convey("At most ten are returned and ties keep input order", func() {
			So(r.Matches, ShouldHaveLength, MaxRecommendations)
			So(r.Matches[0].Item.id, ShouldEqual, "job00")
			So(r.Matches[9].Item.id, ShouldEqual, "job09")
		})
	})

	Convey("Given mixed scores", t, func() {
		candidate := []string{"React", "Node.js", "AWS", "Docker"}
		jobs := []posting{
			{id: "quarter", skills: []string{"React"}},
			{id: "full", skills: []string{"react", "node.js", "aws", "docker"}},
			{id: "half", skills: []string{"React", "AWS"}},
			{id: "none", skills: []string{"PHP"}},
		}
		r := Rank(candidate, true, jobs, postingSkills)

		Convey("Scores are non-increasing", func() {
			So(ids(r), ShouldResemble, []string{"full", "half", "quarter"})
			for i := 1; i < len(r.Matches); i++ {
				So(r.Matches[i].Score, ShouldBeLessThanOrEqualTo, r.Matches[i-1].Score)
			}
		})
	})
}

func TestExtractThenRank(t *testing.T) {
	Convey("Given job descriptions run through extraction", t, func() {
		v := Default()
		jobs := []posting{
			{id: "frontend", skills: v.Extract("Looking for a React and Node.js developer")},
			{id: "cloud", skills: v.Extract("AWS engineer wanted")},
		}
		candidate := v.Extract("I build React apps on Node.js")

		r := Rank(candidate, true, jobs, postingSkills)

		So(ids(r), ShouldResemble, []string{"frontend"})
		So(r.Matches[0].Percentage, ShouldEqual, 100)
	})
}
