package main

import (
	"context"
	"fmt"
	"time"

	"github.com/trezcool/maoni/core"
	"github.com/trezcool/maoni/core/catalog"
)

func (cli *commandLine) addCourse(name string) error {
	crs, err := cli.catRepo.CreateCourse(context.Background(), catalog.Course{
		Name:      core.CleanString(name),
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	fmt.Printf("course %q created (id=%d)\n", crs.Name, crs.ID)
	return nil
}

func (cli *commandLine) addTeacher(name string) error {
	tchr, err := cli.catRepo.CreateTeacher(context.Background(), catalog.Teacher{
		Name:      core.CleanString(name),
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	fmt.Printf("teacher %q created (id=%d)\n", tchr.Name, tchr.ID)
	return nil
}
