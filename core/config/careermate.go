package config

import (
	"github.com/thingc24/carve/core/models"
	"github.com/thingc24/carve/core/rewrite"
)

const (
	monolithSource = "backend/src/main/java/vn/careermate"
	userModel      = "vn.careermate.userservice.model."
	contentModel   = "vn.careermate.contentservice.model."
)

// Default returns the CareerMate extraction: job-service and content-service
// carved out of the monolith, with their user/content associations replaced
// by UUID columns.
func Default() *Config {
	return &Config{
		Root:        ".",
		BasePackage: "vn.careermate",
		Services:    []Service{jobService(), contentService()},
	}
}

func serviceDest(name string) string {
	return "backend/microservices/" + name + "/src/main/java/vn/careermate"
}

func imp(fqcn string) RuleSpec {
	return RuleSpec{Import: fqcn}
}

func field(f rewrite.FieldRef) RuleSpec {
	return RuleSpec{Field: &f}
}

func jobService() Service {
	return Service{
		Name:       "job-service",
		SourceRoot: monolithSource,
		DestRoot:   serviceDest("job-service"),
		Packages:   []string{"vn.careermate.jobservice"},
		Catalog: models.FileCatalog{Groups: []models.FileGroup{
			{Dir: "jobservice/model", Files: []string{"Job.java", "Application.java", "SavedJob.java", "JobSkill.java", "ApplicationHistory.java"}},
			{Dir: "jobservice/repository", Files: []string{"JobRepository.java", "ApplicationRepository.java", "SavedJobRepository.java", "JobSkillRepository.java", "ApplicationHistoryRepository.java"}},
			{Dir: "jobservice/service", Files: []string{"JobService.java", "ApplicationService.java"}},
			{Dir: "jobservice/controller", Files: []string{"JobController.java", "ApplicationController.java"}},
			{Dir: "jobservice/dto", Files: []string{"JobDTO.java", "ApplicationDTO.java", "SavedJobDTO.java", "ApplicationHistoryDTO.java"}},
			{Dir: "jobservice/database", Files: []string{"schema.sql"}},
		}},
		Rewrites: []RewriteSpec{
			{
				Target: "jobservice/model/Job.java",
				Rules: []RuleSpec{
					imp(userModel + "RecruiterProfile"),
					imp(contentModel + "Company"),
					field(rewrite.FieldRef{Fetch: "LAZY", Column: "recruiter_id", JSONIgnore: true, Type: "RecruiterProfile", Name: "recruiter"}),
					field(rewrite.FieldRef{Fetch: "EAGER", Column: "company_id", Type: "Company", Name: "company"}),
				},
			},
			{
				Target: "jobservice/model/Application.java",
				Rules: []RuleSpec{
					imp(userModel + "StudentProfile"),
					imp(userModel + "CV"),
					field(rewrite.FieldRef{Fetch: "EAGER", Column: "student_id", JSONIgnore: true, Type: "StudentProfile", Name: "student"}),
					field(rewrite.FieldRef{Fetch: "EAGER", Column: "cv_id", Nullable: true, Type: "CV", Name: "cv"}),
				},
			},
			{
				Target: "jobservice/model/SavedJob.java",
				Rules: []RuleSpec{
					imp(userModel + "StudentProfile"),
					field(rewrite.FieldRef{Fetch: "EAGER", Column: "student_id", JSONIgnore: true, Type: "StudentProfile", Name: "student"}),
				},
			},
		},
	}
}

func contentService() Service {
	return Service{
		Name:       "content-service",
		SourceRoot: monolithSource,
		DestRoot:   serviceDest("content-service"),
		Packages:   []string{"vn.careermate.contentservice"},
		Catalog: models.FileCatalog{Groups: []models.FileGroup{
			{Dir: "contentservice/model", Files: []string{"Company.java", "CompanyRating.java", "Article.java", "ArticleReaction.java", "ArticleComment.java"}},
			{Dir: "contentservice/repository", Files: []string{"CompanyRepository.java", "CompanyRatingRepository.java", "ArticleRepository.java", "ArticleReactionRepository.java", "ArticleCommentRepository.java"}},
			{Dir: "contentservice/service", Files: []string{"CompanyService.java", "CompanyRatingService.java", "ArticleService.java", "ArticleReactionService.java", "ArticleCommentService.java"}},
			{Dir: "contentservice/controller", Files: []string{"CompanyController.java", "CompanyRatingController.java", "ArticleController.java"}},
			{Dir: "contentservice/dto", Files: []string{"CompanyDTO.java", "CreateArticleRequest.java", "ArticleCommentDTO.java"}},
			{Dir: "contentservice/database", Files: []string{"schema.sql"}},
		}},
		Rewrites: []RewriteSpec{
			{
				Target: "contentservice/model/Article.java",
				Rules: []RuleSpec{
					imp(userModel + "User"),
					field(rewrite.FieldRef{Fetch: "EAGER", Column: "author_id", Type: "User", Name: "author"}),
					field(rewrite.FieldRef{Fetch: "LAZY", Column: "approved_by", Nullable: true, JSONIgnore: true, Type: "User", Name: "approvedBy", IDName: "approvedBy"}),
				},
			},
			{
				Target: "contentservice/model/CompanyRating.java",
				Rules: []RuleSpec{
					imp(userModel + "StudentProfile"),
					field(rewrite.FieldRef{Fetch: "LAZY", Column: "student_id", Type: "StudentProfile", Name: "student"}),
				},
			},
			{
				Target: "contentservice/model/ArticleReaction.java",
				Rules: []RuleSpec{
					imp(userModel + "User"),
					field(rewrite.FieldRef{Fetch: "EAGER", Column: "user_id", Type: "User", Name: "user"}),
				},
			},
			{
				Target: "contentservice/model/ArticleComment.java",
				Rules: []RuleSpec{
					imp(userModel + "User"),
					field(rewrite.FieldRef{Fetch: "EAGER", Column: "user_id", Type: "User", Name: "user"}),
				},
			},
		},
	}
}
