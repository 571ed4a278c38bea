package database

import (
	"fmt"
	"log"

	"peoplefirst_backend/internal/config"
	"peoplefirst_backend/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	err = db.AutoMigrate(
		&model.User{},
		&model.Skill{},
		&model.UserSkill{},
		&model.SkillAssessment{},
		&model.ChallengeRun{},
		&model.Question{},
		&model.Badge{},
		&model.UserBadge{},
		&model.Guild{},
		&model.GuildMember{},
		&model.GuildMessage{},
		&model.GuildActivity{},
		&model.Grade{},
		&model.Content{},
		&model.Favorite{},
		&model.ContentCompletion{},
		&model.Story{},
		&model.StoryComment{},
	)

	if err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	seedSkills(db)
	seedBadges(db)

	return db, nil
}

// seedSkills inserts the baseline skill catalog. Existing rows are left
// untouched so operators can rename or extend the catalog freely.
func seedSkills(db *gorm.DB) {
	defaults := []model.Skill{
		{Name: "JavaScript", Category: "Programming", MarketDemand: 92},
		{Name: "Python", Category: "Programming", MarketDemand: 95},
		{Name: "SQL", Category: "Data", MarketDemand: 88},
		{Name: "Data Analysis", Category: "Data", MarketDemand: 90},
		{Name: "UI Design", Category: "Design", MarketDemand: 78},
		{Name: "Project Management", Category: "Business", MarketDemand: 82},
		{Name: "Communication", Category: "Soft Skills", MarketDemand: 97},
		{Name: "Cloud Computing", Category: "Infrastructure", MarketDemand: 91},
	}

	for _, skill := range defaults {
		var count int64
		db.Model(&model.Skill{}).Where("name = ?", skill.Name).Count(&count)
		if count == 0 {
			if err := db.Create(&skill).Error; err != nil {
				log.Printf("seed skill %q failed: %v", skill.Name, err)
			}
		}
	}
}

// seedBadges reconciles the badge catalog on startup. New badges are
// inserted by name; already-earned badges keep their rows.
func seedBadges(db *gorm.DB) {
	defaults := []model.Badge{
		{
			Name:             "First Steps",
			Description:      "Complete your first piece of learning content",
			IconURL:          "footprints",
			Category:         model.CategoryLearning,
			Rarity:           model.RarityCommon,
			RequirementType:  model.ReqCourseComplete,
			RequirementValue: 1,
			Points:           10,
		},
		{
			Name:             "Dedicated Learner",
			Description:      "Complete 10 pieces of learning content",
			IconURL:          "book-open",
			Category:         model.CategoryLearning,
			Rarity:           model.RarityRare,
			RequirementType:  model.ReqCourseComplete,
			RequirementValue: 10,
			Points:           50,
		},
		{
			Name:             "Knowledge Seeker",
			Description:      "Complete 25 pieces of learning content",
			IconURL:          "graduation-cap",
			Category:         model.CategoryLearning,
			Rarity:           model.RarityEpic,
			RequirementType:  model.ReqCourseComplete,
			RequirementValue: 25,
			Points:           150,
		},
		{
			Name:             "Skill Apprentice",
			Description:      "Verify one skill at 70 or above",
			IconURL:          "target",
			Category:         model.CategorySkill,
			Rarity:           model.RarityCommon,
			RequirementType:  model.ReqSkillMastery,
			RequirementValue: 1,
			RequirementScore: 70,
			Points:           25,
		},
		{
			Name:             "Skill Collector",
			Description:      "Verify five skills at 70 or above",
			IconURL:          "layers",
			Category:         model.CategorySkill,
			Rarity:           model.RarityRare,
			RequirementType:  model.ReqSkillMastery,
			RequirementValue: 5,
			RequirementScore: 70,
			Points:           100,
		},
		{
			Name:             "Virtuoso",
			Description:      "Verify three skills at 90 or above",
			IconURL:          "crown",
			Category:         model.CategorySkill,
			Rarity:           model.RarityLegendary,
			RequirementType:  model.ReqSkillMastery,
			RequirementValue: 3,
			RequirementScore: 90,
			Points:           300,
		},
		{
			Name:             "Social Butterfly",
			Description:      "Take part in 10 community interactions",
			IconURL:          "users",
			Category:         model.CategorySocial,
			Rarity:           model.RarityCommon,
			RequirementType:  model.ReqSocial,
			RequirementValue: 10,
			Points:           20,
		},
		{
			Name:             "Community Pillar",
			Description:      "Take part in 50 community interactions",
			IconURL:          "heart-handshake",
			Category:         model.CategorySocial,
			Rarity:           model.RarityEpic,
			RequirementType:  model.ReqSocial,
			RequirementValue: 50,
			Points:           120,
		},
		{
			Name:             "Streak Starter",
			Description:      "Keep a 7 day learning streak",
			IconURL:          "flame",
			Category:         model.CategoryMilestone,
			Rarity:           model.RarityRare,
			RequirementType:  model.ReqStreak,
			RequirementValue: 7,
			Points:           40,
		},
		{
			Name:             "Milestone Hunter",
			Description:      "Reach 1000 experience points",
			IconURL:          "trophy",
			Category:         model.CategoryMilestone,
			Rarity:           model.RarityRare,
			RequirementType:  model.ReqMilestone,
			RequirementValue: 1000,
			Points:           75,
		},
	}

	for _, badge := range defaults {
		var count int64
		db.Model(&model.Badge{}).Where("name = ?", badge.Name).Count(&count)
		if count == 0 {
			if err := db.Create(&badge).Error; err != nil {
				log.Printf("seed badge %q failed: %v", badge.Name, err)
			}
		}
	}
}
