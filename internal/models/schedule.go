package models

type Schedule struct {
	ID        string `json:"id"`
	Day       string `json:"day"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Subject   string `json:"subject"`
	Year      string `json:"year,omitempty"`
	Classroom string `json:"classroom,omitempty"`
	Teacher   string `json:"teacher,omitempty"`
	Course    string `json:"course,omitempty"`
	Group     string `json:"group,omitempty"`
}

type NewSchedule struct {
	Day       string `json:"day"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Subject   string `json:"subject"`
	Year      string `json:"year"`
	Classroom string `json:"classroom"`
	Teacher   string `json:"teacher"`
	Course    string `json:"course"`
	Group     string `json:"group"`
}

// ScheduleUpdate carries a partial update; nil fields are left unchanged.
// Day and ID are part of the key and cannot change.
type ScheduleUpdate struct {
	StartTime *string `json:"startTime"`
	EndTime   *string `json:"endTime"`
	Subject   *string `json:"subject"`
	Year      *string `json:"year"`
	Classroom *string `json:"classroom"`
	Teacher   *string `json:"teacher"`
	Course    *string `json:"course"`
	Group     *string `json:"group"`
}

func (s Schedule) Apply(u ScheduleUpdate) Schedule {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}

	set(&s.StartTime, u.StartTime)
	set(&s.EndTime, u.EndTime)
	set(&s.Subject, u.Subject)
	set(&s.Year, u.Year)
	set(&s.Classroom, u.Classroom)
	set(&s.Teacher, u.Teacher)
	set(&s.Course, u.Course)
	set(&s.Group, u.Group)

	return s
}

// ScheduleFilter holds optional equality filters; empty fields match anything.
type ScheduleFilter struct {
	Classroom string `form:"classroom"`
	Subject   string `form:"subject"`
	Year      string `form:"year"`
	Group     string `form:"group"`
	Course    string `form:"course"`
}

func (f ScheduleFilter) Matches(s Schedule) bool {
	return matchOpt(f.Classroom, s.Classroom) &&
		matchOpt(f.Subject, s.Subject) &&
		matchOpt(f.Year, s.Year) &&
		matchOpt(f.Group, s.Group) &&
		matchOpt(f.Course, s.Course)
}

func matchOpt(want, got string) bool {
	return want == "" || want == got
}
