package sqlxrepos

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/maoni/core/catalog"
)

type catalogRepository struct {
	db *sqlx.DB
}

var _ catalog.Repository = (*catalogRepository)(nil) // interface compliance check

func NewCatalogRepository(db *sqlx.DB) *catalogRepository {
	return &catalogRepository{db: db}
}

func (repo *catalogRepository) CreateCourse(ctx context.Context, crs catalog.Course) (catalog.Course, error) {
	q := repo.db.Rebind(`INSERT INTO course (name, created_at) VALUES (?, ?) RETURNING id`)
	if err := repo.db.QueryRowxContext(ctx, q, crs.Name, crs.CreatedAt).Scan(&crs.ID); err != nil {
		return catalog.Course{}, errors.Wrap(err, "inserting course")
	}
	return crs, nil
}

func (repo *catalogRepository) QueryAllCourses(ctx context.Context) ([]catalog.Course, error) {
	courses := make([]catalog.Course, 0)
	if err := repo.db.SelectContext(ctx, &courses, `SELECT * FROM course ORDER BY name`); err != nil {
		return nil, errors.Wrap(err, "querying courses")
	}
	return courses, nil
}

func (repo *catalogRepository) GetCourseByID(ctx context.Context, id int) (catalog.Course, error) {
	var crs catalog.Course
	q := repo.db.Rebind(`SELECT * FROM course WHERE id = ?`)
	if err := repo.db.GetContext(ctx, &crs, q, id); err != nil {
		return catalog.Course{}, trapNoRowsErr(err, catalog.ErrNotFound, "finding course by ID")
	}
	return crs, nil
}

func (repo *catalogRepository) CreateTeacher(ctx context.Context, tchr catalog.Teacher) (catalog.Teacher, error) {
	q := repo.db.Rebind(`INSERT INTO teacher (name, created_at) VALUES (?, ?) RETURNING id`)
	if err := repo.db.QueryRowxContext(ctx, q, tchr.Name, tchr.CreatedAt).Scan(&tchr.ID); err != nil {
		return catalog.Teacher{}, errors.Wrap(err, "inserting teacher")
	}
	return tchr, nil
}

func (repo *catalogRepository) QueryAllTeachers(ctx context.Context) ([]catalog.Teacher, error) {
	teachers := make([]catalog.Teacher, 0)
	if err := repo.db.SelectContext(ctx, &teachers, `SELECT * FROM teacher ORDER BY name`); err != nil {
		return nil, errors.Wrap(err, "querying teachers")
	}
	return teachers, nil
}

func (repo *catalogRepository) GetTeacherByID(ctx context.Context, id int) (catalog.Teacher, error) {
	var tchr catalog.Teacher
	q := repo.db.Rebind(`SELECT * FROM teacher WHERE id = ?`)
	if err := repo.db.GetContext(ctx, &tchr, q, id); err != nil {
		return catalog.Teacher{}, trapNoRowsErr(err, catalog.ErrNotFound, "finding teacher by ID")
	}
	return tchr, nil
}
