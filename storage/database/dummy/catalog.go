package dummydb

import (
	"context"
	"sort"

	"github.com/trezcool/maoni/core/catalog"
)

type catalogRepository struct {
	db *catalogTable
}

var _ catalog.Repository = (*catalogRepository)(nil) // interface compliance check

func NewCatalogRepository(db *DB) *catalogRepository {
	return &catalogRepository{db: db.catalog}
}

func (repo *catalogRepository) CreateCourse(_ context.Context, crs catalog.Course) (catalog.Course, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.coursePk++
	crs.ID = repo.db.coursePk
	repo.db.courses[crs.ID] = &crs
	return crs, nil
}

func (repo *catalogRepository) QueryAllCourses(_ context.Context) ([]catalog.Course, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	courses := make([]catalog.Course, 0, len(repo.db.courses))
	for _, crs := range repo.db.courses {
		courses = append(courses, *crs)
	}
	sort.Slice(courses, func(i, j int) bool { return courses[i].Name < courses[j].Name })
	return courses, nil
}

func (repo *catalogRepository) GetCourseByID(_ context.Context, id int) (catalog.Course, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if crs, ok := repo.db.courses[id]; ok {
		return *crs, nil
	}
	return catalog.Course{}, catalog.ErrNotFound
}

func (repo *catalogRepository) CreateTeacher(_ context.Context, tchr catalog.Teacher) (catalog.Teacher, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.teacherPk++
	tchr.ID = repo.db.teacherPk
	repo.db.teachers[tchr.ID] = &tchr
	return tchr, nil
}

func (repo *catalogRepository) QueryAllTeachers(_ context.Context) ([]catalog.Teacher, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	teachers := make([]catalog.Teacher, 0, len(repo.db.teachers))
	for _, tchr := range repo.db.teachers {
		teachers = append(teachers, *tchr)
	}
	sort.Slice(teachers, func(i, j int) bool { return teachers[i].Name < teachers[j].Name })
	return teachers, nil
}

func (repo *catalogRepository) GetTeacherByID(_ context.Context, id int) (catalog.Teacher, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if tchr, ok := repo.db.teachers[id]; ok {
		return *tchr, nil
	}
	return catalog.Teacher{}, catalog.ErrNotFound
}
