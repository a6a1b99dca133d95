package config

// DefaultRoleLabels 返回类别编码到职位名的默认映射。
// 映射由训练集标签编码导出，与分类器工件同版本发布。
func DefaultRoleLabels() map[int]string {
	return map[int]string{
		0:  "AI Researcher",
		1:  "AI Specialist",
		2:  "Accountant",
		3:  "Advocate",
		4:  "Architect",
		5:  "Arts",
		6:  "Automation Testing",
		7:  "Biomedical Engineer",
		8:  "Blockchain",
		9:  "Business Analyst",
		10: "Chef",
		11: "Civil Engineer",
		12: "Cloud Architect",
		13: "Construction Manager",
		14: "Content Writer",
		15: "Creative Director",
		16: "Customer Service Representative",
		17: "Cybersecurity Analyst",
		18: "Data Analyst",
		19: "Data Science",
		20: "Database",
		21: "Database Administrator",
		22: "Dentist",
		23: "DevOps Engineer",
		24: "DotNet Developer",
		25: "ETL Developer",
		26: "Electrical Engineering",
		27: "Electrician",
		28: "Environmental Scientist",
		29: "Event Planner",
		30: "Financial Analyst",
		31: "Fitness Coach",
		32: "Graphic Designer",
		33: "HR",
		34: "HR Specialist",
		35: "Hadoop",
		36: "Health and fitness",
		37: "Java Developer",
		38: "Journalist",
		39: "Lawyer",
		40: "Legal Consultant",
		41: "Machine Learning Engineer",
		42: "Marketing Manager",
		43: "Mechanical Engineer",
		44: "Network Security Engineer",
		45: "Nurse",
		46: "Operations Manager",
		47: "PMO",
		48: "Personal Trainer",
		49: "Pharmacist",
		50: "Physician",
		51: "Pilot",
		52: "Product Manager",
		53: "Psychologist",
		54: "Python Developer",
		55: "Research Scientist",
		56: "Robotics Engineer",
		57: "SAP Developer",
		58: "SEO Specialist",
		59: "Sales",
		60: "Sales Representative",
		61: "Social Worker",
		62: "Software Engineer",
		63: "Supply Chain Manager",
		64: "Systems Analyst",
		65: "Teacher",
		66: "Testing",
		67: "UX Designer",
		68: "Urban Planner",
		69: "Veterinarian",
		70: "Web Designing",
		71: "Web Developer",
	}
}
