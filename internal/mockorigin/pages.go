package mockorigin

const deniedPage = `<html>
<body>
<h1>Access Denied</h1>
<p>No valid session. Please <a href="/mock-erp?login_page=true">Login here</a>.</p>
</body>
</html>`

const loginPage = `<html>
<head><title>Mock ERP Login</title></head>
<body style="padding: 50px; font-family: sans-serif;">
<div style="max-width:300px; margin:auto; border:1px solid #ccc; padding:20px; border-radius:10px;">
<h2>University Login</h2>
<form action="/mock-login" method="POST">
<input type="text" name="user" placeholder="Roll No"><br>
<input type="password" name="pass" placeholder="Password"><br>
<div class="captcha-box"><strong>CAPTCHA: 9G4X</strong></div>
<input type="text" name="captcha" placeholder="Enter CAPTCHA"><br>
<button type="submit">Sign In</button>
</form>
<p style="font-size:12px; color:#666; margin-top:20px;">* Solving this CAPTCHA is required by university policy.</p>
</div>
</body>
</html>`

const dashboardPage = `<html>
<head><title>Official University Dashboard</title></head>
<body style="background:#f0f2f5;">
<header style="background:white; padding:20px; box-shadow:0 2px 4px rgba(0,0,0,0.1);">
<h1>Student Portal Dashboard</h1>
<p>Welcome, Test Student | Last Login: Today</p>
</header>
<main style="max-width:800px; margin:20px auto; background:white; padding:20px; border-radius:8px;">
<h3>Academic Progress</h3>
<table border="1" style="width:100%; border-collapse:collapse;">
<tr style="background:#eee;"><th>Semester</th><th>GPA</th><th>Attendance</th></tr>
<tr><td>Sem 5</td><td>8.8</td><td>92%</td></tr>
<tr><td>Sem 4</td><td>8.5</td><td>88%</td></tr>
</table>
<div style="margin-top:20px;">
<h4>Notifications</h4>
<ul>
<li>Exam fees due by 15th Feb.</li>
<li>Library book return overdue.</li>
</ul>
</div>
</main>
<footer style="padding:20px; text-align:center; color:#999;">&copy; 2026 Mock University ERP Systems</footer>
</body>
</html>`
